package net

import "bytes"

// RequestToken is the whole request frame. A peer that receives it replies
// with its current script.
const RequestToken = "GET_SCRIPT"

// MaxDatagram is the largest script frame the transport reads.
const MaxDatagram = 64 * 1024

type FrameKind int

const (
	// FrameNone is an empty datagram; it is dropped.
	FrameNone FrameKind = iota
	FrameRequest
	FrameScript
)

func (k FrameKind) String() string {
	switch k {
	case FrameRequest:
		return "request"
	case FrameScript:
		return "script"
	}
	return "none"
}

// Classify decides what a datagram means. Surrounding whitespace is ignored,
// and the returned payload is the trimmed script for FrameScript.
func Classify(datagram []byte) (FrameKind, []byte) {
	data := bytes.TrimSpace(datagram)
	switch {
	case len(data) == 0:
		return FrameNone, nil
	case string(data) == RequestToken:
		return FrameRequest, nil
	}
	return FrameScript, data
}

// RequestFrame returns the bytes of a request datagram.
func RequestFrame() []byte { return []byte(RequestToken) }
