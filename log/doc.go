// Package log builds [log/slog] handlers for thumbsprite.
//
// Three formats are supported: [FormatText] (human-readable, via
// charm.land/log), [FormatLogfmt] and [FormatJSON]. [Config] binds the level
// and format to CLI flags:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	err := cfg.RegisterCompletions(rootCmd)
//
//	logger, err := cfg.NewLogger(os.Stderr)
//
// A [Publisher] splits log output into lines and fans them out to
// subscribers, which is how the progress view shows recent log records:
//
//	pub := log.NewPublisher()
//	logger := slog.New(log.NewHandler(pub, log.LevelInfo, log.FormatLogfmt))
//	sub := pub.Subscribe()
//	for line := range sub.C() {
//	    // ...
//	}
package log
