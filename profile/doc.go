// Package profile writes pprof profiles of a thumbsprite run.
//
// Profiling is mostly useful with the native image backend, where resizing
// and compositing happen in process. Register the flags with
// [Config.RegisterFlags], then bracket the work with [Session.Start] and
// [Session.Stop]:
//
//	s := cfg.NewSession()
//	if err := s.Start(); err != nil {
//		return err
//	}
//	defer s.Stop()
package profile
