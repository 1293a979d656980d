package memory_test

import (
	"testing"

	"github.com/warp/vacation-engine/store/memory"
	"github.com/warp/vacation-engine/store/storetest"
	"github.com/warp/vacation-engine/vacation"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) vacation.Store {
		return memory.New()
	})
}
