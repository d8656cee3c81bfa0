package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"golang.org/x/time/rate"
)

const DefaultMinInterval = 5 * time.Minute

type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Event describes an inference failure that was absorbed into a fallback.
type Event struct {
	Variant   string
	Outcome   string
	Backend   string
	RequestID string
	Err       error
	At        time.Time
}

// Notifier publishes at most one event per interval per process.
type Notifier struct {
	sns      Publisher
	topicARN string
	limiter  *rate.Limiter
}

func NewNotifier(p Publisher, topicARN string, minInterval time.Duration) *Notifier {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Notifier{
		sns:      p,
		topicARN: topicARN,
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Notify reports whether a message was actually published.
func (n *Notifier) Notify(ctx context.Context, ev Event) (bool, error) {
	if !n.limiter.Allow() {
		return false, nil
	}
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject(ev)),
		Message:  aws.String(buildMessage(ev)),
	})
	if err != nil {
		return false, fmt.Errorf("sns Publish: %w", err)
	}
	return true, nil
}

func subject(ev Event) string {
	s := fmt.Sprintf("EduMark %s: inference %s", ev.Variant, ev.Outcome)
	// SNS rejects subjects over 100 characters.
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

func buildMessage(ev Event) string {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	lines := []string{
		"EduMark chat served a fallback because inference failed.",
		"",
		"Variant: " + ev.Variant,
		"Outcome: " + ev.Outcome,
		"Backend: " + ev.Backend,
		"Request: " + ev.RequestID,
		"Time: " + at.UTC().Format(time.RFC3339),
	}
	if ev.Err != nil {
		lines = append(lines, "Error: "+ev.Err.Error())
	}
	lines = append(lines, "", "Further failures are suppressed for a few minutes.")
	return strings.Join(lines, "\n")
}
