package pipeline

import "github.com/cockroachdb/errors"

func errorsIs(err, kind error) bool {
	return err != nil && errors.Is(err, kind)
}
