package render

import "gocv.io/x/gocv"

// Window shows rendered frames in a desktop window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays frame and polls the keyboard. It reports true when the
// user pressed q or closed the window.
func (w *Window) Show(frame *gocv.Mat) bool {
	w.win.IMShow(*frame)
	key := w.win.WaitKey(1)
	return key&0xFF == 'q' || !w.win.IsOpen()
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
