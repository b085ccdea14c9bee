package script

// ExampleScript exercises every shape kind. The editor offers it as a
// starting point.
const ExampleScript = `
canvas.clear()

canvas.filledCircle(100, 100, 40, 'blue')

canvas.circle(220, 100, 40, '#40E0D0', 3)

canvas.triangle(80, 200, 180, 200, 130, 260,
                'yellow', 'black', 2)

canvas.rect(220, 180, 120, 60,
            'red', 'black', 2)

canvas.line(30, 300, 150, 300, 'red', 2)
canvas.line(30, 320, 150, 320, 'green', 2)
canvas.line(30, 340, 150, 340, 'blue', 2)
canvas.line(30, 360, 150, 360, 'magenta', 2)
`
