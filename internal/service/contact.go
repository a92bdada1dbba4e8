package service

import (
	"context"

	"github.com/deppfellow/formrequest/internal/lib/job"
	"github.com/deppfellow/formrequest/internal/model/contact"
	"github.com/deppfellow/formrequest/internal/repository"
	"github.com/deppfellow/formrequest/internal/server"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type contactStore interface {
	Create(ctx context.Context, c *contact.Contact) (*contact.Contact, error)
	CreateMany(ctx context.Context, contacts []*contact.Contact) ([]*contact.Contact, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*contact.Contact, error)
	List(ctx context.Context, filter repository.ContactFilter) ([]*contact.Contact, error)
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ContactService struct {
	repo   contactStore
	jobs   taskEnqueuer
	logger *zerolog.Logger
}

func NewContactService(s *server.Server, repo *repository.ContactRepository) *ContactService {
	return newContactService(repo, s.Job.Client, s.Logger)
}

func newContactService(repo contactStore, jobs taskEnqueuer, logger *zerolog.Logger) *ContactService {
	return &ContactService{
		repo:   repo,
		jobs:   jobs,
		logger: logger,
	}
}

// CreateContact stores the contact and queues its welcome email.
func (s *ContactService) CreateContact(ctx context.Context, ownerID string, payload *contact.CreateContactPayload) (*contact.Contact, error) {
	created, err := s.repo.Create(ctx, payload.ToContact(ownerID))
	if err != nil {
		return nil, err
	}

	s.enqueueWelcome(ctx, created)

	return created, nil
}

// ImportContacts stores the whole batch or nothing.
func (s *ContactService) ImportContacts(ctx context.Context, ownerID string, payload *contact.ImportContactsPayload) (*contact.ImportResult, error) {
	created, err := s.repo.CreateMany(ctx, payload.ToContacts(ownerID))
	if err != nil {
		return nil, err
	}

	for _, c := range created {
		s.enqueueWelcome(ctx, c)
	}

	return &contact.ImportResult{
		Imported: len(created),
		Contacts: created,
	}, nil
}

func (s *ContactService) GetContact(ctx context.Context, ownerID string, payload *contact.GetContactPayload) (*contact.Contact, error) {
	return s.repo.GetByID(ctx, ownerID, payload.ContactID())
}

func (s *ContactService) ListContacts(ctx context.Context, ownerID string, payload *contact.ListContactsPayload) ([]*contact.Contact, error) {
	return s.repo.List(ctx, repository.ContactFilter{
		OwnerID: ownerID,
		IDs:     payload.ContactIDs(),
		Tag:     payload.Tag,
		Limit:   payload.Limit,
		Offset:  payload.Offset,
	})
}

// enqueueWelcome logs and drops enqueue failures. The contact is already
// stored and the email is not worth failing the request over.
func (s *ContactService) enqueueWelcome(ctx context.Context, c *contact.Contact) {
	task, err := job.NewWelcomeEmailTask(c.Email, c.Name)
	if err != nil {
		s.logger.Error().Err(err).Str("contact_id", c.ID.String()).Msg("failed to build welcome email task")
		return
	}

	if _, err := s.jobs.EnqueueContext(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("contact_id", c.ID.String()).Msg("failed to enqueue welcome email")
	}
}
