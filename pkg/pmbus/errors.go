/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package pmbus

import (
	"fmt"
)

// ErrUnknownEncoding returned when a profile names an encoding that does not exist
type ErrUnknownEncoding struct {
	Name string
}

func (e ErrUnknownEncoding) Error() string {
	return fmt.Sprintf("Unknown command encoding: %q", e.Name)
}

type ErrUnknownExponentRule struct {
	Name string
}

func (e ErrUnknownExponentRule) Error() string {
	return fmt.Sprintf("Unknown Linear11 exponent rule: %q", e.Name)
}
