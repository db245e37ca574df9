package m_product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateColumns(t *testing.T) {
	columns, values := UpdateColumns("p-1", map[string]interface{}{
		Version: int64(3),
		Name:    "Lamp",
		Tags:    []string{"home"},
	})

	assert.Equal(t, []string{ProductID, Name, Tags, Version}, columns)
	assert.Equal(t, []interface{}{"p-1", "Lamp", []string{"home"}, int64(3)}, values)
}

func TestModel_UpdateMut(t *testing.T) {
	m := NewModel()
	assert.Nil(t, m.UpdateMut("p-1", nil))
	assert.NotNil(t, m.UpdateMut("p-1", map[string]interface{}{Name: "Lamp"}))
}

func TestColumns(t *testing.T) {
	cols := Columns()
	assert.Equal(t, ProductID, cols[0])
	assert.Contains(t, cols, Tags)
	assert.Contains(t, cols, Images)
	assert.Len(t, cols, 13)
}
