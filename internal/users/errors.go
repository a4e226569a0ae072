package users

import pkgerrors "github.com/locallink/locallink-backend/pkg/errors"

// ErrEmailTaken is returned when signing up with an email already on the roster.
var ErrEmailTaken = pkgerrors.New(pkgerrors.CodeConflict, "Email already registered")
