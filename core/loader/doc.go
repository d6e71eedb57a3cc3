// Package loader registers the HTTP features of the board service.
//
// A feature bundles its handlers with whatever it needs to serve them and decides
// for itself whether it runs: the archive feature, for one, stays unloaded unless
// archive.enabled is set.
//
//	mgr := loader.NewManager()
//	mgr.Register(boardFeature)
//	mgr.Register(integrity.NewFeature(boardFeature, db, log))
//	loaded, err := mgr.LoadAll(app)
//
// Features load in registration order. LoadAll stops at the first failure and
// returns the names loaded so far.
package loader
