package ui_test

import (
	"os"
	"testing"

	"github.com/vanderheijden86/dexviz/pkg/debug"
	"github.com/vanderheijden86/dexviz/pkg/metrics"
)

func TestMain(m *testing.M) {
	debug.SetEnabled(false)
	metrics.SetEnabled(false)
	os.Exit(m.Run())
}
