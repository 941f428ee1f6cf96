// Package cmdutil holds setup shared by the command-line tools.
package cmdutil

import (
	_ "expvar"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"strconv"

	"github.com/golang/glog"
)

// SetupLogging configures glog to log to stderr at the given verbosity.
// Commands parse their own flags, so the glog flags are set directly.
func SetupLogging(verbosity int) {
	flag.Set("logtostderr", "true")
	flag.Set("v", strconv.Itoa(verbosity))
	// glog complains about logging before flag.Parse.
	flag.CommandLine.Parse([]string{})
}

// ServeDebug serves pprof profiles and expvar counters on addr in the
// background. It does nothing if addr is empty.
func ServeDebug(addr string) {
	if addr == "" {
		return
	}

	go func() {
		glog.Infof("Serving debug endpoints on http://%v/debug/", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			glog.Errorf("Debug server failed: %v", err)
		}
	}()
}
