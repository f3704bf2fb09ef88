package postgres

import (
	"context"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// UpsertBySubject creates or refreshes a user keyed by the identity provider's
// subject claim. Email and name follow the provider; the persisted role wins
// over the incoming one so an admin-assigned role survives logins.
func (repo *userRepository) UpsertBySubject(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
		}).
		Create(userM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert user by subject")
	}

	// The conflict path does not return the existing row, so re-read to pick
	// up the persisted ID and role.
	var persisted model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("subject_id = ?", user.SubjectID).
		First(&persisted).Error; err != nil {
		return errors.Wrap(err, "failed to reload upserted user")
	}

	*user = *toUserDomain(&persisted)

	return nil
}

// FindUserByID retrieves a user by its unique ID.
func (repo *userRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by ID")
	}

	return toUserDomain(&userM), nil
}

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	return &entity.User{
		ID:        data.ID,
		SubjectID: data.SubjectID,
		Email:     data.Email,
		Name:      data.Name,
		Role:      entity.Role(data.Role),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel.
func fromUserDomain(data *entity.User) *model.UserModel {
	role := data.Role
	if !role.IsValid() {
		role = entity.RoleClient
	}

	return &model.UserModel{
		ID:        data.ID,
		SubjectID: data.SubjectID,
		Email:     data.Email,
		Name:      data.Name,
		Role:      role.String(),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
