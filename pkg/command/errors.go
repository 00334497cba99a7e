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

package command

import (
	"fmt"
)

type ErrUnknownFormat struct {
	Format string
}

func (e ErrUnknownFormat) Error() string {
	return fmt.Sprintf("Unknown output format %q. Must be one of: %s, %s, %s, %s",
		e.Format, FormatText, FormatSummary, FormatYAML, FormatPcap)
}

// ErrMissingInput returned when a binary export is given without its data line
type ErrMissingInput struct {
	What string
}

func (e ErrMissingInput) Error() string {
	return fmt.Sprintf("Missing input: %s", e.What)
}
