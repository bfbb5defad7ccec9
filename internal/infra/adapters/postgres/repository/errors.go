package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	domainrepo "github.com/qrave1/RoomMeet/internal/domain/repository"
)

const uniqueViolationCode = "23505"

// mapError переводит ошибки драйвера в ошибки репозитория
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domainrepo.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domainrepo.ErrDuplicate
	}

	return err
}
