package main

// background runs fn on its own goroutine, tracked by the application wait
// group so graceful shutdown can drain it. A panic in fn must never take
// the server down.
func (app *application) background(fn func()) {
	app.wg.Add(1)

	go func() {
		defer app.wg.Done()

		defer func() {
			if err := recover(); err != nil {
				app.logger.Errorw("background task panicked", "error", err)
			}
		}()

		fn()
	}()
}
