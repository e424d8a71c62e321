package internal

type Source interface {
	Next() (string, error)
	Close() error
}
