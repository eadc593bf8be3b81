package journal

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Encoder turns an event into a kind name and payload.
type Encoder func(ev any) (kind string, payload []byte, err error)

// Recorder appends observed events to one journal session. Its Observe
// method fits mvi.WithObserver.
type Recorder struct {
	journal *Journal
	session string
	encode  Encoder
	log     *zap.Logger

	mu  sync.Mutex
	seq int64
}

// NewRecorder starts a new session in j.
func NewRecorder(ctx context.Context, j *Journal, encode Encoder, log *zap.Logger) (*Recorder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	session, err := j.StartSession(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("journal session started", zap.String("session", session), zap.String("path", j.Path()))
	return &Recorder{
		journal: j,
		session: session,
		encode:  encode,
		log:     log,
	}, nil
}

// Session returns the session id events are recorded under.
func (r *Recorder) Session() string {
	return r.session
}

// Observe records ev. Failures are logged and otherwise ignored so a broken
// journal never stops the screen.
func (r *Recorder) Observe(ev any) {
	kind, payload, err := r.encode(ev)
	if err != nil {
		r.log.Warn("skipping unencodable event", zap.Error(err))
		return
	}

	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.journal.Append(ctx, Record{
		Session: r.session,
		Seq:     seq,
		Kind:    kind,
		Payload: payload,
	}); err != nil {
		r.log.Error("journal append failed", zap.Error(err))
	}
}
