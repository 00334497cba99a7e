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

package capture

import (
	"fmt"
)

type ErrChannelNotFound struct {
	Index int
	Count int
}

func (e ErrChannelNotFound) Error() string {
	return fmt.Sprintf("Digital channel %d not found, capture has %d digital channels", e.Index, e.Count)
}

// ErrEmptyChannel returned for a channel without a single transition
type ErrEmptyChannel struct {
	Name string
}

func (e ErrEmptyChannel) Error() string {
	return fmt.Sprintf("Channel %s has no transitions", e.Name)
}
