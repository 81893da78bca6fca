// Package sprite generates a thumbnail sprite and its WebVTT cue track for a
// video.
//
// A [Generator] runs the pipeline in strict sequence: sample frames
// ([media.Producer]), measure the first frame ([media.Inspector]), tile the
// frames into one image ([media.Composer]) and map every tile to a time window
// ([vtt.Build]). Intermediate files live in a scratch workspace next to the
// outputs that is removed on every exit path. Outputs are staged in the
// workspace and moved into place only once every stage has succeeded, so a
// failed run never leaves a partial cue file behind.
//
// [Config] binds the generator settings to CLI flags and an optional YAML
// file, and picks the media backend:
//
//	cfg := sprite.NewConfig()
//	cfg.RegisterFlags(cmd.Flags())
//
//	gen, err := cfg.NewGenerator(logger)
//	res, err := gen.Generate(ctx, "/videos/movie.mp4")
//	// res.Sprite == "/videos/movie.jpg", res.Cues == "/videos/movie.vtt"
//
// Failures are reported with sentinel errors; [ExitCode] maps them to the
// process exit status.
package sprite
