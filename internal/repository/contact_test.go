package repository

import (
	"testing"

	"github.com/deppfellow/formrequest/internal/model/contact"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertContactsQuery(t *testing.T) {
	age := 36
	contacts := []*contact.Contact{
		{OwnerID: "user_123", Name: "Ada", Email: "ada@example.com", Age: &age, Tags: []string{"math"}},
		{OwnerID: "user_123", Name: "Grace", Email: "grace@example.com", Tags: []string{}},
	}

	query, args, err := insertContactsQuery(contacts)

	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO contacts (owner_id,name,email,phone,age,tags)")
	assert.Contains(t, query, "VALUES ($1,$2,$3,$4,$5,$6),($7,$8,$9,$10,$11,$12)")
	assert.Contains(t, query, "RETURNING id, owner_id, name, email, phone, age, tags, created_at, updated_at")
	require.Len(t, args, 12)
	assert.Equal(t, "Ada", args[1])
	assert.Equal(t, "grace@example.com", args[8])
}

func TestListContactsQuery(t *testing.T) {
	t.Run("owner only", func(t *testing.T) {
		query, args, err := listContactsQuery(ContactFilter{OwnerID: "user_123"})

		require.NoError(t, err)
		assert.Contains(t, query, "FROM contacts WHERE owner_id = $1 ORDER BY created_at DESC, id")
		assert.NotContains(t, query, "LIMIT")
		assert.Equal(t, []any{"user_123"}, args)
	})

	t.Run("tag and paging", func(t *testing.T) {
		query, args, err := listContactsQuery(ContactFilter{OwnerID: "user_123", Tag: "vip", Limit: 10, Offset: 20})

		require.NoError(t, err)
		assert.Contains(t, query, "WHERE owner_id = $1 AND $2 = ANY(tags)")
		assert.Contains(t, query, "LIMIT 10")
		assert.Contains(t, query, "OFFSET 20")
		assert.Equal(t, []any{"user_123", "vip"}, args)
	})

	t.Run("ids", func(t *testing.T) {
		first := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
		second := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

		query, args, err := listContactsQuery(ContactFilter{OwnerID: "user_123", IDs: []uuid.UUID{first, second}, Tag: "vip"})

		require.NoError(t, err)
		assert.Contains(t, query, "WHERE owner_id = $1 AND id IN ($2,$3) AND $4 = ANY(tags)")
		assert.Equal(t, []any{"user_123", first.String(), second.String(), "vip"}, args)
	})
}
