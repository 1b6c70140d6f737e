package book

import (
	"context"

	"library-api/internal/pkg/pagination"

	"github.com/stretchr/testify/mock"
)

type MockBookRepository struct {
	mock.Mock
}

func (_m *MockBookRepository) Save(ctx context.Context, book *Book) (*Book, error) {
	ret := _m.Called(ctx, book)

	var r0 *Book
	if rf, ok := ret.Get(0).(func(context.Context, *Book) *Book); ok {
		r0 = rf(ctx, book)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Book)
	}

	return r0, ret.Error(1)
}

func (_m *MockBookRepository) Update(ctx context.Context, book *Book) (*Book, error) {
	ret := _m.Called(ctx, book)

	var r0 *Book
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Book)
	}

	return r0, ret.Error(1)
}

func (_m *MockBookRepository) Delete(ctx context.Context, bookID int64) error {
	ret := _m.Called(ctx, bookID)
	return ret.Error(0)
}

func (_m *MockBookRepository) FindByID(ctx context.Context, bookID int64) (*Book, error) {
	ret := _m.Called(ctx, bookID)

	var r0 *Book
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Book)
	}

	return r0, ret.Error(1)
}

func (_m *MockBookRepository) FindByIsbn(ctx context.Context, isbn string) (*Book, error) {
	ret := _m.Called(ctx, isbn)

	var r0 *Book
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Book)
	}

	return r0, ret.Error(1)
}

func (_m *MockBookRepository) ExistsByIsbn(ctx context.Context, isbn string) (bool, error) {
	ret := _m.Called(ctx, isbn)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockBookRepository) FindAll(ctx context.Context, filter Filter, pageable pagination.Pageable) ([]Book, int64, error) {
	ret := _m.Called(ctx, filter, pageable)

	var r0 []Book
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Book)
	}

	return r0, ret.Get(1).(int64), ret.Error(2)
}
