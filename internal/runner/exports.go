package runner

import (
	"ScriptBoard/internal/export"
)

// ExportAfterRun writes the scene to pngPath and pdfPath, when set, after
// every run. Failures are logged and do not affect the run.
func (s *Session) ExportAfterRun(pngPath, pdfPath string) {
	if pngPath == "" && pdfPath == "" {
		return
	}
	s.Listen(Listener{Executed: func(r Result) {
		snap := s.scene.Snapshot()
		if pngPath != "" {
			if err := export.PNGFile(pngPath, snap, export.DefaultWidth, export.DefaultHeight); err != nil {
				s.log.Warn("PNG export failed", "run", r.ID, "path", pngPath, "error", err)
			}
		}
		if pdfPath != "" {
			if err := export.PDFFile(pdfPath, snap, export.DefaultWidth, export.DefaultHeight); err != nil {
				s.log.Warn("PDF export failed", "run", r.ID, "path", pdfPath, "error", err)
			}
		}
	}})
}
