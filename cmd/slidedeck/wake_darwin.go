package main

import (
	"log"

	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
)

// watchWake returns a channel signalled each time the system wakes from
// sleep. USB devices re-enumerate on wake and need to be reopened.
func watchWake() <-chan struct{} {
	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)
	go func() {
		for activity := range sleepCh {
			if activity.Type == notifier.Awake {
				log.Println("System wake detected")
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()
	return wakeCh
}
