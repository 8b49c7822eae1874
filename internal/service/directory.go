package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"clinicbook/api/internal/ids"
	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository"
	"clinicbook/api/internal/security"
)

const (
	doctorsCacheKey         = "directory:doctors"
	specializationsCacheKey = "directory:specializations"
	directoryCacheTTL       = 5 * time.Minute
)

// DirectoryService serves the doctor directory and the admin-only user
// management operations. The unfiltered doctor list and the specialization
// list are cached in Redis and invalidated on every admin write; a nil cache
// client disables caching.
type DirectoryService struct {
	users        repository.UserStore
	appointments repository.AppointmentStore
	cache        *redis.Client
	log          zerolog.Logger
}

func NewDirectoryService(users repository.UserStore, appointments repository.AppointmentStore, cache *redis.Client, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{
		users:        users,
		appointments: appointments,
		cache:        cache,
		log:          log,
	}
}

func (s *DirectoryService) ListDoctors(ctx context.Context, specialization string) ([]models.User, error) {
	specialization = strings.TrimSpace(specialization)

	if specialization == "" {
		if cached, ok := s.cachedDoctors(ctx); ok {
			return cached, nil
		}
	}

	doctors, err := s.users.ListDoctors(ctx, specialization)
	if err != nil {
		return nil, err
	}

	if specialization == "" {
		s.cacheDoctors(ctx, doctors)
	}
	return doctors, nil
}

func (s *DirectoryService) Specializations(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, specializationsCacheKey).Result(); err == nil {
			var out []string
			if json.Unmarshal([]byte(raw), &out) == nil {
				return out, nil
			}
		}
	}

	out, err := s.users.ListSpecializations(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			s.cache.Set(ctx, specializationsCacheKey, raw, directoryCacheTTL)
		}
	}
	return out, nil
}

type CreateDoctorInput struct {
	Username       string
	Password       string
	Name           string
	Email          string
	Phone          *string
	Specialization string
}

func (s *DirectoryService) CreateDoctor(ctx context.Context, input CreateDoctorInput) (models.User, error) {
	input.Username = strings.TrimSpace(input.Username)

	if input.Username == "" || input.Password == "" || input.Name == "" || input.Email == "" || input.Specialization == "" {
		return models.User{}, validationf("username, password, name, email and specialization are required")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	doctor := models.User{
		ID:             ids.New(),
		Username:       input.Username,
		PasswordHash:   passwordHash,
		Role:           models.RoleDoctor,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Specialization: &input.Specialization,
	}

	if err := s.users.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}

	s.invalidateDirectory(ctx)
	s.log.Info().Str("doctor_id", doctor.ID).Str("specialization", input.Specialization).Msg("doctor created")
	return doctor, nil
}

type UpdateDoctorInput struct {
	Name           string
	Email          string
	Phone          *string
	Specialization *string
}

// UpdateDoctor touches profile fields only; username, role and credentials
// are immutable through this path.
func (s *DirectoryService) UpdateDoctor(ctx context.Context, id string, input UpdateDoctorInput) (models.User, error) {
	if input.Name == "" || input.Email == "" {
		return models.User{}, validationf("name and email are required")
	}

	doctor, err := s.users.UpdateDoctorProfile(ctx, id, repository.DoctorProfile{
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Specialization: input.Specialization,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	s.invalidateDirectory(ctx)
	return doctor, nil
}

// DeleteDoctor refuses while any scheduled appointment still references the
// doctor. Completed and cancelled history does not block deletion; those rows
// become orphan references that read paths filter.
func (s *DirectoryService) DeleteDoctor(ctx context.Context, id string) error {
	doctor, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	if doctor.Role != models.RoleDoctor {
		return ErrNotFound
	}

	booked, err := s.appointments.HasScheduledForDoctor(ctx, id)
	if err != nil {
		return err
	}
	if booked {
		return ErrDoctorBooked
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.invalidateDirectory(ctx)
	s.log.Info().Str("doctor_id", id).Msg("doctor deleted")
	return nil
}

func (s *DirectoryService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListAll(ctx)
}

func (s *DirectoryService) cachedDoctors(ctx context.Context) ([]models.User, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, doctorsCacheKey).Result()
	if err != nil {
		return nil, false
	}

	var doctors []models.User
	if err := json.Unmarshal([]byte(raw), &doctors); err != nil {
		return nil, false
	}
	return doctors, true
}

func (s *DirectoryService) cacheDoctors(ctx context.Context, doctors []models.User) {
	if s.cache == nil {
		return
	}

	// Never put credential material in the cache.
	stripped := make([]models.User, len(doctors))
	for i, d := range doctors {
		d.PasswordHash = nil
		stripped[i] = d
	}

	raw, err := json.Marshal(stripped)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, doctorsCacheKey, raw, directoryCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("directory cache write failed")
	}
}

func (s *DirectoryService) invalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, doctorsCacheKey, specializationsCacheKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("directory cache invalidation failed")
	}
}
