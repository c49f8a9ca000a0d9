//go:build !darwin

package main

// watchWake has no sleep notifications off macOS. The returned channel
// never fires.
func watchWake() <-chan struct{} {
	return make(chan struct{})
}
