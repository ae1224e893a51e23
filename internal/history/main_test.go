package history

import (
	"os"
	"testing"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}
