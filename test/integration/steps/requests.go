//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/cucumber/godog"
)

const testPassword = "Passw0rd123"

var (
	refPattern   = regexp.MustCompile(`\{(category|transaction|payment):([^}]+)\}`)
	todayPattern = regexp.MustCompile(`\{today([+-]\d+)?\}`)
)

// resolve replaces {kind:name} with remembered ids and {today±N} with a UTC date.
func (t *testContext) resolve(text string) (string, error) {
	var missing error
	text = refPattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := refPattern.FindStringSubmatch(match)
		id, ok := t.ids[parts[1]][parts[2]]
		if !ok {
			missing = fmt.Errorf("no %s named %q was created", parts[1], parts[2])
			return match
		}
		return id
	})
	if missing != nil {
		return "", missing
	}

	today := time.Now().UTC()
	text = todayPattern.ReplaceAllStringFunc(text, func(match string) string {
		offset := 0
		if parts := todayPattern.FindStringSubmatch(match); parts[1] != "" {
			offset, _ = strconv.Atoi(parts[1])
		}
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	})
	return text, nil
}

func (t *testContext) remember(kind, name, id string) {
	if t.ids[kind] == nil {
		t.ids[kind] = map[string]string{}
	}
	t.ids[kind][name] = id
}

func (t *testContext) send(method, endpoint string, body []byte) error {
	endpoint, err := t.resolve(endpoint)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		resolved, err := t.resolve(string(body))
		if err != nil {
			return err
		}
		reader = bytes.NewBufferString(resolved)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, t.server.URL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	t.response = &response{status: resp.StatusCode, header: resp.Header, body: raw}
	if len(raw) > 0 {
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()
		_ = decoder.Decode(&t.response.decoded)
	}
	return nil
}

// create sends a setup request and returns the created resource's id.
func (t *testContext) create(endpoint string, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	if err := t.send(http.MethodPost, endpoint, body); err != nil {
		return "", err
	}
	if t.response.status != http.StatusCreated {
		return "", fmt.Errorf("POST %s returned %d: %s", endpoint, t.response.status, t.response.body)
	}
	id, err := lookup(t.response.decoded, "id")
	if err != nil {
		return "", err
	}
	return fmt.Sprint(id), nil
}

func (t *testContext) iAmRegisteredAndLoggedInAs(email string) error {
	body, _ := json.Marshal(map[string]any{"email": email, "name": "Test User", "password": testPassword})
	if err := t.send(http.MethodPost, "/api/v1/auth/register", body); err != nil {
		return err
	}
	if t.response.status != http.StatusCreated {
		return fmt.Errorf("register returned %d: %s", t.response.status, t.response.body)
	}

	access, err := lookup(t.response.decoded, "access_token")
	if err != nil {
		return err
	}
	refresh, err := lookup(t.response.decoded, "refresh_token")
	if err != nil {
		return err
	}
	t.accessToken = fmt.Sprint(access)
	t.refreshToken = fmt.Sprint(refresh)
	return nil
}

func (t *testContext) aUserExistsWithEmailAndPassword(email, password string) error {
	body, _ := json.Marshal(map[string]any{"email": email, "name": "Test User", "password": password})
	if err := t.send(http.MethodPost, "/api/v1/auth/register", body); err != nil {
		return err
	}
	if t.response.status != http.StatusCreated {
		return fmt.Errorf("register returned %d: %s", t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) aCategoryExists(categoryType, name string) error {
	id, err := t.create("/api/v1/categories", map[string]any{"name": name, "type": categoryType})
	if err != nil {
		return err
	}
	t.remember("category", name, id)
	return nil
}

func (t *testContext) aPublicBurdenCategoryExists(name string) error {
	id, err := t.create("/api/v1/categories", map[string]any{
		"name":             name,
		"type":             "expense",
		"is_public_burden": true,
	})
	if err != nil {
		return err
	}
	t.remember("category", name, id)
	return nil
}

func (t *testContext) aTransactionExists(amount, category, date string) error {
	date, err := t.resolve(date)
	if err != nil {
		return err
	}
	categoryID, ok := t.ids["category"][category]
	if !ok {
		return fmt.Errorf("no category named %q was created", category)
	}
	id, err := t.create("/api/v1/transactions", map[string]any{
		"date":        date,
		"amount":      json.Number(amount),
		"category_id": categoryID,
	})
	if err != nil {
		return err
	}
	t.remember("transaction", category+" "+date, id)
	return nil
}

func (t *testContext) aScheduledPaymentExists(memo, amount, category, dueDate string) error {
	dueDate, err := t.resolve(dueDate)
	if err != nil {
		return err
	}
	categoryID, ok := t.ids["category"][category]
	if !ok {
		return fmt.Errorf("no category named %q was created", category)
	}
	id, err := t.create("/api/v1/scheduled-payments", map[string]any{
		"category_id":      categoryID,
		"estimated_amount": json.Number(amount),
		"due_date":         dueDate,
		"memo":             memo,
	})
	if err != nil {
		return err
	}
	t.remember("payment", memo, id)
	return nil
}

func (t *testContext) iClearTheAccessToken() error {
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, endpoint string) error {
	return t.send(method, endpoint, nil)
}

func (t *testContext) iSendARequestToWithBody(method, endpoint string, body *godog.DocString) error {
	return t.send(method, endpoint, []byte(body.Content))
}

func (t *testContext) iSendRequestsToWithBody(count int, method, endpoint string, body *godog.DocString) error {
	for i := 0; i < count; i++ {
		if err := t.send(method, endpoint, []byte(body.Content)); err != nil {
			return err
		}
	}
	return nil
}

func (t *testContext) theReminderJobRuns() error {
	ctx := context.Background()
	if _, err := t.injector.QueueReminders.Execute(ctx); err != nil {
		return fmt.Errorf("failed to queue reminders: %w", err)
	}
	t.injector.EmailWorker.ProcessNow(ctx)
	return nil
}

func (t *testContext) theRateLimitWindowElapses() error {
	t.redis.FastForward(time.Minute + time.Second)
	return nil
}
