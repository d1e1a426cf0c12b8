// Package app is the composition root for Marquee.
//
// Run loads the configuration (TOML file, optional .env, then environment),
// sends the standard logger to the configured log file, builds the catalog
// client and the session gate around a file-backed session store, and runs
// the Bubble Tea program until the user quits or the context is cancelled.
//
// # Error Handling
//
// Only startup can fail: an unreadable config, an invalid API URL or a log
// file that cannot be created are returned from Run. Once the UI is up every
// request failure is logged and shown as a toast instead.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{}); err != nil {
//		log.Fatalf("marquee failed: %v", err)
//	}
package app
