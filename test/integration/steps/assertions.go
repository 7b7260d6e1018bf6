//go:build integration

package steps

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// lookup walks a decoded JSON document along a dotted path such as
// "summary.totalIncome" or "categoryStats.0.categoryName".
func lookup(doc any, path string) (any, error) {
	current := doc
	for _, key := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[key]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response", path)
			}
			current = value
		case []any:
			index, err := strconv.Atoi(key)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", key, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field %q not found in response", path)
		}
	}
	return current, nil
}

func (t *testContext) requireResponse() error {
	if t.response == nil {
		return fmt.Errorf("no response received")
	}
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expected int) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if t.response.status != expected {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expected, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if !json.Valid(t.response.body) {
		return fmt.Errorf("response is not valid JSON: %s", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(expected string) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if !strings.Contains(string(t.response.body), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expected string) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	expected, err := t.resolve(expected)
	if err != nil {
		return err
	}
	value, err := lookup(t.response.decoded, field)
	if err != nil {
		return fmt.Errorf("%w. Body: %s", err, t.response.body)
	}
	if actual := fmt.Sprint(value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if _, err := lookup(t.response.decoded, field); err != nil {
		return fmt.Errorf("%w. Body: %s", err, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, count int) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	value, err := lookup(t.response.decoded, field)
	if err != nil {
		return fmt.Errorf("%w. Body: %s", err, t.response.body)
	}
	switch items := value.(type) {
	case []any:
		if len(items) != count {
			return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
		}
	case map[string]any:
		if len(items) != count {
			return fmt.Errorf("field '%s' expected %d keys, got %d", field, count, len(items))
		}
	default:
		return fmt.Errorf("field '%s' is not a list", field)
	}
	return nil
}

func (t *testContext) theResponseHeaderShouldBe(header, expected string) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if actual := t.response.header.Get(header); actual != expected {
		return fmt.Errorf("header '%s' expected '%s', got '%s'", header, expected, actual)
	}
	return nil
}

func (t *testContext) theResponseHeaderShouldBeSet(header string) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if t.response.header.Get(header) == "" {
		return fmt.Errorf("header '%s' is missing", header)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(expected int, table string) error {
	count, err := t.db.Count(table, nil)
	if err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTableWhere(expected int, table, column, value string) error {
	count, err := t.db.Count(table, map[string]any{column: value})
	if err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d rows in %s where %s = %s, got %d", expected, table, column, value, count)
	}
	return nil
}
