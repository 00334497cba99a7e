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

package export

import (
	"bytes"
	"io"
	"io/ioutil"

	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
)

const documentSeparator = "---\n"

// YAMLSink writes every finalized transaction as a YAML document
type YAMLSink struct {
	w io.Writer
}

func NewYAMLSink(w io.Writer) *YAMLSink {
	return &YAMLSink{w: w}
}

func (s *YAMLSink) Annotate(a bus.Annotation) error {
	if a.Record == nil {
		return nil
	}
	out, err := yaml.Marshal(a.Record)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, documentSeparator); err != nil {
		return err
	}
	_, err = s.w.Write(out)
	return err
}

// ReadRecords parses a stream written by YAMLSink
func ReadRecords(r io.Reader) ([]bus.Record, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var records []bus.Record
	for _, doc := range bytes.Split(data, []byte(documentSeparator)) {
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}
		var rec bus.Record
		if err := yaml.Unmarshal(doc, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
