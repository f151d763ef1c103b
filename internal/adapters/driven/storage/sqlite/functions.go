package sqlite

import (
	"database/sql/driver"
	"fmt"
	"math"
	"sync"

	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions makes vec_l2 available on every connection opened
// afterwards. The driver keeps registrations process-wide.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction("vec_l2", 2, vecL2)
	})
	if registerErr != nil {
		return fmt.Errorf("registering vec_l2: %w", registerErr)
	}
	return nil
}

// vecL2 returns the Euclidean distance between two embedding BLOBs.
// NULL in gives NULL out.
func vecL2(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("vec_l2: expected 2 arguments, got %d", len(args))
	}
	a, ok := args[0].([]byte)
	if !ok {
		if args[0] == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("vec_l2: unsupported argument type %T; want BLOB", args[0])
	}
	b, ok := args[1].([]byte)
	if !ok {
		if args[1] == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("vec_l2: unsupported argument type %T; want BLOB", args[1])
	}
	if len(a) != len(b) || len(a)%4 != 0 {
		return nil, fmt.Errorf("vec_l2: blob length mismatch %d vs %d", len(a), len(b))
	}

	return l2(bytesToFloat32Slice(a), bytesToFloat32Slice(b)), nil
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
