package tipjar

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/orm"
	"github.com/iov-one/tipjar/weave"
)

// jarModelLen is the size of a serialized jar.
const jarModelLen = discriminatorLen + weave.AddressLength + 8

const discriminatorLen = 8

// discriminator prefixes every serialized jar so that a record of any other
// type is never decoded as a jar.
var discriminator = func() []byte {
	h := sha256.Sum256([]byte("account:TipJar"))
	return h[:discriminatorLen]
}()

// Jar is the persisted state of a single tip jar.
type Jar struct {
	// Owner is the only address allowed to withdraw. It never changes.
	Owner weave.Address
	// TotalTips is the cumulative value of all tips ever received.
	TotalTips uint64
}

var _ orm.Model = (*Jar)(nil)

// Marshal returns the fixed size representation of a jar:
//
//	discriminator (8) | owner (32) | total tips (8, little endian)
func (j *Jar) Marshal() ([]byte, error) {
	if len(j.Owner) != weave.AddressLength {
		return nil, errors.Wrapf(errors.ErrModel, "owner of %d bytes", len(j.Owner))
	}
	raw := make([]byte, jarModelLen)
	copy(raw, discriminator)
	copy(raw[discriminatorLen:], j.Owner)
	binary.LittleEndian.PutUint64(raw[discriminatorLen+weave.AddressLength:], j.TotalTips)
	return raw, nil
}

func (j *Jar) Unmarshal(raw []byte) error {
	if len(raw) != jarModelLen {
		return errors.Wrapf(errors.ErrModel, "jar of %d bytes", len(raw))
	}
	if !bytes.Equal(raw[:discriminatorLen], discriminator) {
		return errors.Wrap(errors.ErrModel, "not a jar")
	}
	j.Owner = append(weave.Address(nil), raw[discriminatorLen:discriminatorLen+weave.AddressLength]...)
	j.TotalTips = binary.LittleEndian.Uint64(raw[discriminatorLen+weave.AddressLength:])
	return nil
}

func (j *Jar) Validate() error {
	return errors.Field("Owner", j.Owner.Validate(), "invalid owner")
}

func (j *Jar) Copy() orm.Model {
	return &Jar{
		Owner:     append(weave.Address(nil), j.Owner...),
		TotalTips: j.TotalTips,
	}
}

// NewJarBucket returns a bucket storing jars under their id. Jars are
// indexed by their owner.
func NewJarBucket() orm.ModelBucket {
	return orm.NewModelBucket("jar", &Jar{},
		orm.WithIndex("owner", ownerIndex, false),
	)
}

func ownerIndex(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	j, ok := obj.Value().(*Jar)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T is not a jar", obj.Value())
	}
	return j.Owner, nil
}

// JarCondition returns the condition controlling the custody wallet of the
// jar with given id.
func JarCondition(jarID []byte) weave.Condition {
	return weave.NewCondition("tipjar", "jar", jarID)
}

// JarAddress returns the address of the custody wallet of the jar with given
// id.
func JarAddress(jarID []byte) weave.Address {
	return JarCondition(jarID).Address()
}
