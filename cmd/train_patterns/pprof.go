package main

import "runtime/pprof"
import "os"
import "os/signal"
import "syscall"

// profile collects a cpu profile into default.pgo when the program runs with -pgo.
// The returned stop function writes the profile, it also runs on SIGINT.
func profile() (stop func()) {
	for _, arg := range os.Args {
		if arg == "-pgo" || arg == "--pgo" {
			f, err := os.Create("default.pgo")
			if err != nil {
				println(err.Error())
				return func() {}
			}
			pprof.StartCPUProfile(f)
			stop = func() {
				pprof.StopCPUProfile()
				f.Close()
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				stop()
				os.Exit(130)
			}()
			return stop
		}
	}
	return func() {}
}
