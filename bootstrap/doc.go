// Package bootstrap runs the soundguard process lifecycle: start the
// registered components, run hooks, print a startup summary, then either
// block until a signal (Run) or execute one finite task (RunTask) before
// shutting everything down in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(runtime)
//	app.RegisterComponent(server.NewComponent(srv))
//	err = app.Run(ctx)
package bootstrap
