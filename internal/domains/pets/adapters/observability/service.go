package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	pettypes "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application/types"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
)

const tracerName = "github.com/Apurer/petstore-contract-tests/internal/domains/pets/adapters/observability"

// Service decorates the pets service port with spans, structured logs and counters.
// The store keeps whatever status label a client sends, so every stored pet is
// tagged with whether its status is one of the documented ones.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics storeMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter the store counters are created from.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newStoreMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

type mutationKind string

const (
	mutationCreate mutationKind = "create"
	mutationUpdate mutationKind = "update"
	mutationForm   mutationKind = "form"
)

// AddPet stores a pet posted to /pet.
func (s *Service) AddPet(ctx context.Context, input pettypes.AddPetInput) (*pettypes.PetProjection, error) {
	return s.mutate(ctx, "Service.AddPet", mutationCreate, input.ID, func(ctx context.Context) (*pettypes.PetProjection, error) {
		return s.inner.AddPet(ctx, input)
	})
}

// UpdatePet is the upsert behind PUT /pet.
func (s *Service) UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error) {
	return s.mutate(ctx, "Service.UpdatePet", mutationUpdate, input.ID, func(ctx context.Context) (*pettypes.PetProjection, error) {
		return s.inner.UpdatePet(ctx, input)
	})
}

// UpdatePetWithForm handles POST /pet/{petId}.
func (s *Service) UpdatePetWithForm(ctx context.Context, input pettypes.UpdatePetWithFormInput) (*pettypes.PetProjection, error) {
	return s.mutate(ctx, "Service.UpdatePetWithForm", mutationForm, input.ID, func(ctx context.Context) (*pettypes.PetProjection, error) {
		return s.inner.UpdatePetWithForm(ctx, input)
	})
}

// FindByStatus counts how many requested labels are outside the documented set;
// those searches answer an empty array.
func (s *Service) FindByStatus(ctx context.Context, input pettypes.FindPetsByStatusInput) ([]*pettypes.PetProjection, error) {
	unknown := 0
	for _, status := range input.Statuses {
		if !domain.Status(status).Known() {
			unknown++
		}
	}
	return s.search(ctx, "Service.FindByStatus", func(ctx context.Context) ([]*pettypes.PetProjection, error) {
		return s.inner.FindByStatus(ctx, input)
	}, slog.Any("statuses", input.Statuses), slog.Int("statuses.unknown", unknown))
}

// FindByTags backs the deprecated tag search.
func (s *Service) FindByTags(ctx context.Context, input pettypes.FindPetsByTagsInput) ([]*pettypes.PetProjection, error) {
	return s.search(ctx, "Service.FindByTags", func(ctx context.Context) ([]*pettypes.PetProjection, error) {
		return s.inner.FindByTags(ctx, input)
	}, slog.Any("tags", input.Tags))
}

// List exposes all pets.
func (s *Service) List(ctx context.Context) ([]*pettypes.PetProjection, error) {
	return s.search(ctx, "Service.List", s.inner.List)
}

// GetByID loads a single pet. A miss is an expected answer of the store, not a failure.
func (s *Service) GetByID(ctx context.Context, input pettypes.PetIdentifier) (*pettypes.PetProjection, error) {
	ctx, span := s.tracer.Start(ctx, "Service.GetByID", trace.WithAttributes(attribute.Int64("pet.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to load pet", slog.Int64("pet.id", input.ID))
	}
	s.annotate(span, result)
	s.logger.LogAttrs(ctx, slog.LevelDebug, "pet loaded", slog.Int64("pet.id", input.ID))
	return result, nil
}

// Delete removes a pet.
func (s *Service) Delete(ctx context.Context, input pettypes.PetIdentifier) error {
	ctx, span := s.tracer.Start(ctx, "Service.Delete", trace.WithAttributes(attribute.Int64("pet.id", input.ID)))
	defer span.End()

	if err := s.inner.Delete(ctx, input); err != nil {
		return s.fail(ctx, span, err, "failed to delete pet", slog.Int64("pet.id", input.ID))
	}
	s.metrics.deleted(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "pet deleted", slog.Int64("pet.id", input.ID))
	return nil
}

func (s *Service) mutate(ctx context.Context, name string, kind mutationKind, requestedID int64, call func(context.Context) (*pettypes.PetProjection, error)) (*pettypes.PetProjection, error) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int64("pet.id.requested", requestedID),
		attribute.Bool("pet.id.assigned", requestedID == 0),
	))
	defer span.End()

	result, err := call(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to "+string(kind)+" pet", slog.Int64("pet.id", requestedID))
	}
	if result == nil || result.Entity == nil {
		return result, nil
	}
	pet := result.Entity
	s.annotate(span, result)
	s.metrics.stored(ctx, kind, pet.Status)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "pet stored",
		slog.String("kind", string(kind)),
		slog.Int64("pet.id", pet.ID),
		slog.String("status", string(pet.Status)),
		slog.Bool("status.known", pet.Status.Known()),
	)
	return result, nil
}

func (s *Service) search(ctx context.Context, name string, call func(context.Context) ([]*pettypes.PetProjection, error), attrs ...slog.Attr) ([]*pettypes.PetProjection, error) {
	ctx, span := s.tracer.Start(ctx, name)
	defer span.End()
	for _, attr := range attrs {
		span.SetAttributes(attribute.String("pet.query."+attr.Key, attr.Value.String()))
	}

	result, err := call(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to search pets", attrs...)
	}
	span.SetAttributes(attribute.Int("pet.result.count", len(result)))
	if len(result) == 0 {
		s.metrics.emptySearch(ctx, name)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "pets found", append(attrs, slog.Int("count", len(result)))...)
	return result, nil
}

func (s *Service) annotate(span trace.Span, result *pettypes.PetProjection) {
	if result == nil || result.Entity == nil {
		return
	}
	span.SetAttributes(
		attribute.Int64("pet.id", result.Entity.ID),
		attribute.String("pet.status", string(result.Entity.Status)),
		attribute.Bool("pet.status.known", result.Entity.Status.Known()),
	)
}

// fail records a not-found as an ordinary outcome and everything else as a span error.
func (s *Service) fail(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if errors.Is(err, ports.ErrNotFound) {
		s.metrics.missing(ctx)
		span.SetAttributes(attribute.Bool("pet.not_found", true))
		s.logger.LogAttrs(ctx, slog.LevelInfo, msg, append(attrs, slog.String("reason", err.Error()))...)
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.LogAttrs(ctx, slog.LevelError, msg, append(attrs, slog.String("error", err.Error()))...)
	return err
}

type storeMetrics struct {
	created         metric.Int64Counter
	updated         metric.Int64Counter
	deletes         metric.Int64Counter
	notFound        metric.Int64Counter
	unknownStatuses metric.Int64Counter
	emptySearches   metric.Int64Counter
}

func newStoreMetrics(m metric.Meter) storeMetrics {
	if m == nil {
		return storeMetrics{}
	}
	created, _ := m.Int64Counter("pets.service.created", metric.WithDescription("Pets created through POST /pet"))
	updated, _ := m.Int64Counter("pets.service.updated", metric.WithDescription("Pets written through PUT /pet or the form update"))
	deletes, _ := m.Int64Counter("pets.service.deleted", metric.WithDescription("Pets deleted"))
	notFound, _ := m.Int64Counter("pets.service.not_found", metric.WithDescription("Requests for ids the store does not hold"))
	unknownStatuses, _ := m.Int64Counter("pets.service.unknown_status", metric.WithDescription("Pets stored with a status outside available, pending and sold"))
	emptySearches, _ := m.Int64Counter("pets.service.empty_search", metric.WithDescription("Searches that answered an empty array"))
	return storeMetrics{
		created:         created,
		updated:         updated,
		deletes:         deletes,
		notFound:        notFound,
		unknownStatuses: unknownStatuses,
		emptySearches:   emptySearches,
	}
}

func (m storeMetrics) stored(ctx context.Context, kind mutationKind, status domain.Status) {
	attrs := []attribute.KeyValue{attribute.String("pet.status", string(status)), attribute.String("kind", string(kind))}
	if kind == mutationCreate {
		add(ctx, m.created, attrs...)
	} else {
		add(ctx, m.updated, attrs...)
	}
	if status != "" && !status.Known() {
		add(ctx, m.unknownStatuses, attrs...)
	}
}

func (m storeMetrics) deleted(ctx context.Context) { add(ctx, m.deletes) }

func (m storeMetrics) missing(ctx context.Context) { add(ctx, m.notFound) }

func (m storeMetrics) emptySearch(ctx context.Context, operation string) {
	add(ctx, m.emptySearches, attribute.String("operation", operation))
}

func add(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
