package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// TotalKey is the synthetic key carrying a distribution's total on the wire.
const TotalKey = "total"

// Bucket is one category of a distribution.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Distribution is an ordered count-by-bucket summary. Buckets with a zero
// count are omitted; Total is the sum of all bucket counts.
type Distribution struct {
	Buckets []Bucket
	Total   int
}

// Count returns the count of key, or 0 when absent.
func (d Distribution) Count(key string) int {
	for _, b := range d.Buckets {
		if b.Key == key {
			return b.Count
		}
	}
	return 0
}

// Keys lists bucket keys in order, without the total.
func (d Distribution) Keys() []string {
	keys := make([]string, len(d.Buckets))
	for i, b := range d.Buckets {
		keys[i] = b.Key
	}
	return keys
}

// MarshalJSON writes an ordered object with "total" last, e.g. {"5":2,"3":1,"total":3}.
func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, b := range d.Buckets {
		key, err := json.Marshal(b.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(b.Count))
		buf.WriteByte(',')
	}
	buf.WriteString(`"` + TotalKey + `":`)
	buf.WriteString(strconv.Itoa(d.Total))
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PieSegment is one wedge of a pie chart, in percent of the full circle.
type PieSegment struct {
	Key        string  `json:"key"`
	Count      int     `json:"count"`
	Percent    float64 `json:"percent"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	ColorIndex int     `json:"colorIndex"`
	Color      string  `json:"color"`
}
