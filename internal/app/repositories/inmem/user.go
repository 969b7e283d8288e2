package inmem

import (
	"context"

	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
)

type userRepository struct {
	db *DB
}

func (repo *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, u := range repo.db.users {
		if u.Email == email {
			usr := u
			return &usr, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (repo *userRepository) GetOrCreate(_ context.Context, u *models.User) (*models.User, bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.users {
		if existing.Email == u.Email {
			usr := existing
			return &usr, false, nil
		}
	}

	repo.db.nextUserID++
	usr := *u
	usr.ID = repo.db.nextUserID
	repo.db.users = append(repo.db.users, usr)
	return &usr, true, nil
}

func (repo *userRepository) Exists(_ context.Context, id int64) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.userByID(id)
	return ok, nil
}
