package workitems

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/apperr"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/metrics"
)

// Source is the external issue tracker.
type Source interface {
	List(ctx context.Context) ([]WorkItem, error)
	AddTag(ctx context.Context, id int, tag string) error
	UpdateAcceptanceCriteria(ctx context.Context, id int, criteria string) error
}

const maxErrorBody = 4 << 10

// do sends req and decodes a JSON body into out when out is non-nil.
// Failures are classified into the apperr taxonomy.
func do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return apperr.UpstreamUnavailable("issue tracker unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		cause := fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, body)
		switch resp.StatusCode {
		case http.StatusNotFound:
			e := apperr.NotFound("work item not found")
			e.Err = cause
			return e
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperr.UpstreamAuth("issue tracker rejected credentials", cause)
		}
		return apperr.UpstreamFailed("issue tracker request failed", cause)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return apperr.UpstreamFailed("issue tracker response unreadable", err)
		}
		*raw = b
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.UpstreamFailed("issue tracker response malformed", err)
	}
	return nil
}

type instrumented struct {
	next Source
}

// Instrument records call latency per operation.
func Instrument(src Source) Source {
	return instrumented{next: src}
}

func (s instrumented) List(ctx context.Context) ([]WorkItem, error) {
	start := time.Now()
	items, err := s.next.List(ctx)
	observe("list", start, err)
	return items, err
}

func (s instrumented) AddTag(ctx context.Context, id int, tag string) error {
	start := time.Now()
	err := s.next.AddTag(ctx, id, tag)
	observe("add_tag", start, err)
	return err
}

func (s instrumented) UpdateAcceptanceCriteria(ctx context.Context, id int, criteria string) error {
	start := time.Now()
	err := s.next.UpdateAcceptanceCriteria(ctx, id, criteria)
	observe("update_acceptance_criteria", start, err)
	return err
}

func observe(op string, start time.Time, err error) {
	metrics.TrackerDuration.WithLabelValues(op, metrics.Outcome(err)).Observe(time.Since(start).Seconds())
}
