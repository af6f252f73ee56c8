/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package boundary

import "runtime/debug"

// Guard runs fn and funnels its terminal outcome through Normalize exactly
// once. It returns nil when fn returns nil.
//
// A panic inside fn is recovered; the goroutine stack at the panic site is
// kept on the result unless the panic value already carried one.
func Guard(fn func() error) (te *Error) {
	defer func() {
		if r := recover(); r != nil {
			te = normalize(r, string(debug.Stack()))
		}
	}()
	if err := fn(); err != nil {
		return Normalize(err)
	}
	return nil
}

// Go runs fn on its own goroutine under Guard. The returned channel delivers
// exactly one outcome (nil on success) and is then closed.
//
//	done := boundary.Go(func() error { return sendReceipt(ctx, order) })
//	if te := <-done; te != nil {
//	    ...
//	}
func Go(fn func() error) <-chan *Error {
	ch := make(chan *Error, 1)
	go func() {
		defer close(ch)
		ch <- Guard(fn)
	}()
	return ch
}
