package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Rectangle is an (x, y, width, height) region, used for face and custom
// coordinates on input and parsed back from responses.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String renders the rectangle as "x,y,w,h".
func (r Rectangle) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// Coordinates is a list of rectangles, rendered pipe-delimited on the wire.
type Coordinates []Rectangle

func (c Coordinates) String() string {
	parts := make([]string, len(c))
	for i, r := range c {
		parts[i] = r.String()
	}
	return strings.Join(parts, "|")
}

// ParseCoordinates parses "x,y,w,h|x,y,w,h". An empty string yields nil.
func ParseCoordinates(s string) (Coordinates, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out Coordinates
	for _, part := range strings.Split(s, "|") {
		fields := strings.Split(part, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("invalid rectangle %q: expected 4 comma separated values", part)
		}
		var vals [4]int
		for i, f := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("invalid rectangle %q: %w", part, err)
			}
			vals[i] = v
		}
		out = append(out, Rectangle{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]})
	}
	return out, nil
}

// UnmarshalJSON accepts the [[x,y,w,h],...] arrays returned by the API.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var raw [][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*c = nil
		return nil
	}
	out := make(Coordinates, 0, len(raw))
	for _, r := range raw {
		if len(r) != 4 {
			return fmt.Errorf("invalid rectangle %v: expected 4 values", r)
		}
		out = append(out, Rectangle{X: int(r[0]), Y: int(r[1]), Width: int(r[2]), Height: int(r[3])})
	}
	*c = out
	return nil
}
