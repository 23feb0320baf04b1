package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/notifications"
	"github.com/FebaRodrigues/final-fit-sub000/stripe"
	"github.com/FebaRodrigues/final-fit-sub000/test"
)

var testDB *db.MongoStorage

const testSignature = "t=1,v1=valid"

// stubProvider is an in-memory Provider. Created sessions get sequential
// cs_test_N identifiers and can be marked paid or expired per test.
type stubProvider struct {
	mu       sync.Mutex
	counter  int
	sessions map[string]*stripe.CheckoutSessionStatus
	// createErr makes every session creation fail when set
	createErr error
}

func newStubProvider() *stubProvider {
	return &stubProvider{sessions: make(map[string]*stripe.CheckoutSessionStatus)}
}

func (p *stubProvider) CreateCheckoutSession(_ *stripe.CheckoutParams) (*stripe.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.counter++
	id := fmt.Sprintf("cs_test_%d", p.counter)
	url := "https://checkout.test/" + id
	p.sessions[id] = &stripe.CheckoutSessionStatus{ID: id, URL: url, Status: "open"}
	return &stripe.CheckoutSession{ID: id, URL: url}, nil
}

func (p *stubProvider) GetCheckoutSession(sessionID string) (*stripe.CheckoutSessionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, ok := p.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %s", sessionID)
	}
	return status, nil
}

// ValidateWebhookEvent accepts the fixed test signature and decodes the
// payload as the event itself.
func (p *stubProvider) ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripe.PaymentEvent, error) {
	if signatureHeader != testSignature {
		return nil, fmt.Errorf("signature verification failed")
	}
	event := &stripe.PaymentEvent{}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

// stubMailer records notifications instead of delivering them.
type stubMailer struct {
	mu   sync.Mutex
	sent []*notifications.Notification
}

func (m *stubMailer) New(_ any) error { return nil }

func (m *stubMailer) SendNotification(_ context.Context, n *notifications.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *n
	m.sent = append(m.sent, &copied)
	return nil
}

// subjects returns the subjects of the recorded notifications, in order.
func (m *stubMailer) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	subjects := make([]string, 0, len(m.sent))
	for _, n := range m.sent {
		subjects = append(subjects, n.Subject)
	}
	return subjects
}

// markPaid flips a session to settled on the stub provider side.
func (p *stubProvider) markPaid(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if status, ok := p.sessions[sessionID]; ok {
		status.Status = "complete"
		status.Paid = true
	}
}

// expire drops a session, as the provider does after the checkout TTL.
func (p *stubProvider) expire(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, sessionID)
}

func TestMain(m *testing.M) {
	ctx := context.Background()
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start MongoDB container: %v", err))
	}

	mongoURI, err := dbContainer.Endpoint(ctx, "mongodb")
	if err != nil {
		panic(fmt.Sprintf("failed to get MongoDB endpoint: %v", err))
	}

	testDB, err = db.New(mongoURI, test.RandomDatabaseName())
	if err != nil {
		panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
	}

	code := m.Run()

	testDB.Close()
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop MongoDB container: %v", err))
	}
	os.Exit(code)
}

// newTestService builds a service over the shared test database and a fresh
// stub provider.
func newTestService(t *testing.T) (*Service, *stubProvider) {
	t.Helper()
	provider := newStubProvider()
	service, err := NewService(&ServiceConfig{DB: testDB, Provider: provider})
	if err != nil {
		t.Fatalf("failed to create payment service: %v", err)
	}
	return service, provider
}

// newTestServiceWithMailer builds a service with a recording mailer on top
// of the stub provider.
func newTestServiceWithMailer(t *testing.T) (*Service, *stubProvider, *stubMailer) {
	t.Helper()
	provider := newStubProvider()
	mailer := &stubMailer{}
	service, err := NewService(&ServiceConfig{DB: testDB, Provider: provider, Mailer: mailer})
	if err != nil {
		t.Fatalf("failed to create payment service: %v", err)
	}
	return service, provider, mailer
}

// newTestUser inserts a member and returns its ID.
func newTestUser(t *testing.T, email string) uint64 {
	t.Helper()
	id, err := testDB.SetUser(&db.User{
		Email:     email,
		Password:  "testpass123",
		FirstName: "Pay",
		LastName:  "Tester",
		Role:      db.MemberRole,
		Verified:  true,
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return id
}

// newTestMembership inserts a pending membership for the user.
func newTestMembership(t *testing.T, userID uint64, duration db.MembershipDuration, price int64) *db.Membership {
	t.Helper()
	id, err := testDB.SetMembership(&db.Membership{
		UserID:   userID,
		PlanType: "Premium",
		Duration: duration,
		Price:    price,
	})
	if err != nil {
		t.Fatalf("failed to create test membership: %v", err)
	}
	membership, err := testDB.Membership(id)
	if err != nil {
		t.Fatalf("failed to load test membership: %v", err)
	}
	return membership
}

// webhookPayload encodes a checkout completed event for the stub provider.
func webhookPayload(t *testing.T, eventID, sessionID string, userID uint64, metadata map[string]string) []byte {
	t.Helper()
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadata["userId"] = fmt.Sprintf("%d", userID)
	payload, err := json.Marshal(&stripe.PaymentEvent{
		ID:        eventID,
		Type:      stripe.EventTypeCheckoutCompleted,
		SessionID: sessionID,
		Paid:      true,
		Metadata:  metadata,
	})
	if err != nil {
		t.Fatalf("failed to marshal webhook payload: %v", err)
	}
	return payload
}
