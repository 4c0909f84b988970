package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"app/internal/domain/model"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProfileUsecase_GetProfile(t *testing.T) {
	users := &UserRepoMock{}
	users.On("FindByID", mock.Anything, int64(42)).Return(&model.User{ID: 42, Role: model.RoleUser}, nil)

	profiles := &ProfileRepoMock{}
	profiles.On("FindByUserID", mock.Anything, int64(42)).Return(model.Profile{
		UserID:   42,
		FullName: "Taro Yamada",
		Address:  model.ProfileAddress{City: "Tokyo"},
	}, nil)

	uc := NewProfileUsecase(profiles, users)

	out, err := uc.GetProfile(context.Background(), 42)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, "Taro Yamada", out.FullName)
	assert.Equal(t, "Tokyo", out.Address.City)
	assert.Equal(t, "USER", out.Role)
}

// プロフィールが無い・壊れている場合は空で返す
func TestProfileUsecase_GetProfile_MissingIsEmpty(t *testing.T) {
	users := &UserRepoMock{}
	users.On("FindByID", mock.Anything, int64(42)).Return(&model.User{ID: 42, Role: model.RoleUser}, nil)

	profiles := &ProfileRepoMock{}
	profiles.On("FindByUserID", mock.Anything, int64(42)).Return(model.Profile{}, errors.New("corrupt row"))

	uc := NewProfileUsecase(profiles, users)

	out, err := uc.GetProfile(context.Background(), 42)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Empty(t, out.FullName)
	assert.Equal(t, model.ProfileAddress{}, out.Address)
}

func TestProfileUsecase_UpdateProfile(t *testing.T) {
	faker := gofakeit.New(1)

	in := UpdateProfileInput{
		FullName:  "  " + faker.Name() + "  ",
		AvatarURL: faker.URL(),
		Phone:     faker.Phone(),
		Address: model.ProfileAddress{
			Country:    faker.Country(),
			Street:     faker.Street(),
			PostalCode: faker.Zip(),
			City:       faker.City(),
		},
		CountryCode: "JP",
	}

	users := &UserRepoMock{}
	users.On("FindByID", mock.Anything, int64(42)).Return(&model.User{ID: 42, Role: model.RoleUser}, nil)

	profiles := &ProfileRepoMock{}
	profiles.On("Upsert", mock.Anything, mock.MatchedBy(func(p model.Profile) bool {
		//前後の空白は落として保存する
		return p.UserID == 42 && p.FullName == strings.TrimSpace(in.FullName)
	})).Return(model.Profile{UserID: 42, FullName: strings.TrimSpace(in.FullName)}, nil)

	uc := NewProfileUsecase(profiles, users)

	out, err := uc.UpdateProfile(context.Background(), 42, in)
	assert.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(in.FullName), out.FullName)
	profiles.AssertExpectations(t)
}

func TestProfileUsecase_UpdateProfile_TooLongName(t *testing.T) {
	uc := NewProfileUsecase(&ProfileRepoMock{}, &UserRepoMock{})

	_, err := uc.UpdateProfile(context.Background(), 42, UpdateProfileInput{
		FullName: strings.Repeat("x", 256),
	})
	assertHTTPStatus(t, err, 400)
}

func TestProfileUsecase_Unauthorized(t *testing.T) {
	uc := NewProfileUsecase(&ProfileRepoMock{}, &UserRepoMock{})

	_, err := uc.GetProfile(context.Background(), 0)
	assertHTTPStatus(t, err, 401)

	_, err = uc.UpdateProfile(context.Background(), 0, UpdateProfileInput{})
	assertHTTPStatus(t, err, 401)
}
