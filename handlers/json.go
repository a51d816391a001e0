package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// jsonNumber accepts a JSON number, a numeric string, or null/"" (absent).
// Anything else is rejected so non-numeric scores never reach the engine.
type jsonNumber struct {
	Value *float64
}

func (n *jsonNumber) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			n.Value = nil
			return nil
		}
		return n.parse(s)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var num json.Number
	if err := dec.Decode(&num); err == nil {
		return n.parse(num.String())
	}

	return fmt.Errorf("expected number, numeric string, or null")
}

func (n *jsonNumber) parse(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	n.Value = &v
	return nil
}

// bindOneOrMany decodes either a single JSON object or an array of them into out.
func bindOneOrMany[T any](c echo.Context, out *[]T) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fmt.Errorf("empty body")
	}
	if body[0] == '[' {
		return json.Unmarshal(body, out)
	}
	var one T
	if err := json.Unmarshal(body, &one); err != nil {
		return err
	}
	*out = append(*out, one)
	return nil
}
