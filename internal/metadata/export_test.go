// SPDX-License-Identifier: Apache-2.0

package metadata

// SetCopyValue swaps the deep-copy function and returns a func restoring it.
func SetCopyValue(fn func(any) (any, error)) func() {
	prev := copyValue
	copyValue = fn
	return func() { copyValue = prev }
}
