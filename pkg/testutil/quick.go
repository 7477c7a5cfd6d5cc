package testutil

import (
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

// QuickConfig re-exports testing/quick.Config so that callers don't need the
// extra import.
type QuickConfig = quick.Config

// QuickCheck is like testing/quick.Check, but additionally feeds the function
// a list of static inputs, so that known-interesting cases are always
// exercised alongside the random ones.
func QuickCheck(t *testing.T, fn interface{}, cfg quick.Config, testcases ...[]interface{}) {
	t.Helper()
	assert.NoError(t, quick.Check(fn, &cfg))

	fnVal := reflect.ValueOf(fn)
	for i, tc := range testcases {
		if len(tc) != fnVal.Type().NumIn() {
			t.Errorf("static#%d has %d args, but the function takes %d args",
				i, len(tc), fnVal.Type().NumIn())
			continue
		}
		args := make([]reflect.Value, len(tc))
		for j := range args {
			args[j] = reflect.ValueOf(tc[j])
		}
		if !fnVal.Call(args)[0].Bool() {
			in := make([]interface{}, len(args))
			for j, arg := range args {
				in[j] = arg.Interface()
			}
			assert.NoError(t, &quick.CheckError{Count: i + 1, In: in})
		}
	}
}
