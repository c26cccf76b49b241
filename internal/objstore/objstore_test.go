package objstore_test

import (
	"testing"

	"deedles.dev/playland/internal/objstore"
	"deedles.dev/playland/wire"
	"github.com/stretchr/testify/assert"
)

type object struct {
	wire.ObjectID
}

func (obj *object) Interface() string { return "test" }
func (obj *object) Dispatch(msg *wire.MessageBuffer) error { return nil }
func (obj *object) MethodName(op uint16) string { return "" }

func TestStore(t *testing.T) {
	s := objstore.New(1)

	var a, b object
	s.Add(&a)
	s.Add(&b)
	assert.Equal(t, uint32(1), a.ID())
	assert.Equal(t, uint32(2), b.ID())
	assert.Same(t, &b, s.Get(2))

	s.Zombify(1)
	assert.True(t, s.IsZombie(1))
	assert.Same(t, &a, s.Get(1))
	assert.Equal(t, 2, s.Len())

	s.Delete(1)
	assert.False(t, s.IsZombie(1))
	assert.Nil(t, s.Get(1))
	assert.Equal(t, 1, s.Len())

	var c object
	s.Add(&c)
	assert.Equal(t, uint32(3), c.ID())
}

func TestZombifyUnknown(t *testing.T) {
	s := objstore.New(1)
	s.Zombify(5)
	assert.False(t, s.IsZombie(5))
}

func TestAddKeepsAssignedID(t *testing.T) {
	s := objstore.New(1)

	obj := object{ObjectID: 10}
	s.Add(&obj)
	assert.Equal(t, uint32(10), obj.ID())
	assert.Same(t, &obj, s.Get(10))
}
