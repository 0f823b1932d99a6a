package companies

import "context"

type Repository interface {
	Insert(ctx context.Context, name, catchPhrase, bs *string) (int64, error)
	Update(ctx context.Context, id int64, name, catchPhrase, bs *string) error
	Delete(ctx context.Context, id int64) error
}
