package gconf

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/x"
)

// OwnedConfig is a configuration that can be changed only with the signature
// of its owner.
type OwnedConfig interface {
	Config
	GetOwner() weave.Address
}

// Patcher is implemented by messages that change a configuration. Apply
// modifies the loaded configuration in place. The result is validated before
// it is stored.
type Patcher interface {
	weave.Msg
	Apply(current OwnedConfig) error
}

// UpdateConfigurationHandler applies configuration patches of a single
// package.
type UpdateConfigurationHandler struct {
	pkg     string
	newConf func() OwnedConfig
	auth    x.Authenticator
}

var _ weave.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler of Patcher messages.
// newConf must return a zero configuration instance each time it is called.
//
// A configuration can be updated only when it exists, so it has to be
// created in genesis. An owner-less configuration cannot be changed at all.
func NewUpdateConfigurationHandler(pkg string, newConf func() OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:     pkg,
		newConf: newConf,
		auth:    auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) apply(ctx weave.Context, db weave.KVStore, tx weave.Tx) error {
	conf := h.newConf()
	switch err := Load(db, h.pkg, conf); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrUnauthorized, "%s configuration does not exist", h.pkg)
	case err != nil:
		return err
	}

	owner := conf.GetOwner()
	if len(owner) == 0 {
		return errors.Wrapf(errors.ErrUnauthorized, "%s configuration has no owner", h.pkg)
	}
	if !h.auth.HasAddress(ctx, owner) {
		return errors.Wrap(errors.ErrUnauthorized, "configuration owner signature required")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	patch, ok := msg.(Patcher)
	if !ok {
		return errors.Wrapf(errors.ErrMsg, "%T is not a configuration patch", msg)
	}
	if err := patch.Apply(conf); err != nil {
		return errors.Wrap(err, "apply patch")
	}
	return Save(db, h.pkg, conf)
}
