//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/kakeibo/backend/config"
	"github.com/kakeibo/backend/internal/infra/dependency"
	"github.com/kakeibo/backend/test/integration/mock"
)

const (
	testJWTSecret  = "test-jwt-secret-key-for-testing-purposes"
	testLoginLimit = 3
)

// suite holds what lives for the whole run: one server over one database.
type suite struct {
	server   *httptest.Server
	injector *dependency.Injector
	db       *mock.Db
	redis    *mock.Redis
}

var shared = &suite{}

// testContext holds per-scenario state.
type testContext struct {
	*suite

	client       *http.Client
	headers      map[string]string
	accessToken  string
	refreshToken string
	response     *response

	// ids remembers created resources by kind and name so request bodies
	// and paths can refer to them as {category:Food}.
	ids map[string]map[string]string
}

type response struct {
	status  int
	header  http.Header
	body    []byte
	decoded any
}

// InitializeTestSuite starts the API once for all scenarios.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		shared.db = mock.NewDb()
		shared.redis = mock.NewRedis()

		injector, err := dependency.NewInjector(testConfig(), shared.db.Database, shared.redis.Client)
		if err != nil {
			panic(fmt.Sprintf("failed to build injector: %v", err))
		}
		shared.injector = injector
		shared.server = httptest.NewServer(injector.Router.Setup("test"))
	})

	ctx.AfterSuite(func() {
		if shared.server != nil {
			shared.server.Close()
		}
	})
}

// testConfig keeps the real login limit so the limiter can be exercised;
// Redis is flushed between scenarios.
func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Server.Environment = "integration"
	cfg.JWT.Secret = testJWTSecret
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Backend = "redis"
	cfg.RateLimit.LoginLimit = testLoginLimit
	cfg.RateLimit.Window = time.Minute
	cfg.Email.ResendAPIKey = ""
	cfg.Reminder.LookaheadDays = 3
	return cfg
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		suite:  shared,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Setup steps
	ctx.Given(`^I am registered and logged in as "([^"]*)"$`, test.iAmRegisteredAndLoggedInAs)
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, test.aUserExistsWithEmailAndPassword)
	ctx.Given(`^an? "(income|expense)" category "([^"]*)" exists$`, test.aCategoryExists)
	ctx.Given(`^a public burden category "([^"]*)" exists$`, test.aPublicBurdenCategoryExists)
	ctx.Given(`^a transaction of "([^"]*)" in "([^"]*)" on "([^"]*)" exists$`, test.aTransactionExists)
	ctx.Given(`^a scheduled payment "([^"]*)" of "([^"]*)" in "([^"]*)" due on "([^"]*)" exists$`, test.aScheduledPaymentExists)
	ctx.Given(`^I clear the access token$`, test.iClearTheAccessToken)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^I send (\d+) "([^"]*)" requests to "([^"]*)" with body:$`, test.iSendRequestsToWithBody)

	// Background job steps
	ctx.When(`^the reminder job runs$`, test.theReminderJobRuns)
	ctx.When(`^the rate limit window elapses$`, test.theRateLimitWindowElapses)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, test.theResponseFieldShouldHaveItems)
	ctx.Then(`^the response header "([^"]*)" should be "([^"]*)"$`, test.theResponseHeaderShouldBe)
	ctx.Then(`^the response header "([^"]*)" should be set$`, test.theResponseHeaderShouldBeSet)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table where "([^"]*)" is "([^"]*)"$`, test.theDbShouldContainObjectsInTheTableWhere)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.refreshToken = ""
	t.response = nil
	t.ids = map[string]map[string]string{}

	if err := t.db.ClearDB(); err != nil {
		return err
	}
	return t.redis.Clear()
}

func (t *testContext) theAPIServerIsRunning() error {
	if t.server == nil {
		return fmt.Errorf("test server is not running")
	}
	resp, err := t.client.Get(t.server.URL + "/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}
