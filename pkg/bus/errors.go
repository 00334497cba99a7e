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

package bus

import (
	"fmt"
	"strings"
)

// ErrInvalidProfile returned when a profile cannot drive a decoder
type ErrInvalidProfile struct {
	Profile string
	What    string
}

func (e ErrInvalidProfile) Error() string {
	return fmt.Sprintf("Invalid profile %q: %s", e.Profile, e.What)
}

type ErrUnknownProfile struct {
	Name string
}

func (e ErrUnknownProfile) Error() string {
	return fmt.Sprintf("Unknown profile: %s", e.Name)
}

// ErrUnknownRow returned when an annotation row id is not one of AnnotationRows
type ErrUnknownRow struct {
	ID string
}

func (e ErrUnknownRow) Error() string {
	ids := make([]string, 0, len(AnnotationRows))
	for _, row := range AnnotationRows {
		ids = append(ids, row.ID)
	}
	return fmt.Sprintf("Unknown annotation row %q. Must be one of: %s", e.ID, strings.Join(ids, ", "))
}
