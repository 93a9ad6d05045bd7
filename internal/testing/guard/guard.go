package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("INSIGHTS_TEST_MODE") == "" {
			_ = os.Setenv("INSIGHTS_TEST_MODE", "1")
		}
	})
}
