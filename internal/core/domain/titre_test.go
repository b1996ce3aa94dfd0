package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTitreEstValide(t *testing.T) {
	expiration := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	titre := &Titre{Statut: TitreDelivre, DateExpiration: expiration}

	t.Run("day before expiration is valid", func(t *testing.T) {
		assert.True(t, titre.EstValide(expiration.AddDate(0, 0, -1)))
	})

	t.Run("expiration day itself is still valid", func(t *testing.T) {
		assert.True(t, titre.EstValide(expiration))
		// any wall-clock time on the expiration day counts
		assert.True(t, titre.EstValide(expiration.Add(23*time.Hour+59*time.Minute)))
	})

	t.Run("day after expiration is invalid", func(t *testing.T) {
		assert.False(t, titre.EstValide(expiration.AddDate(0, 0, 1)))
	})

	t.Run("only delivered titres are valid", func(t *testing.T) {
		before := expiration.AddDate(0, 0, -30)
		for _, statut := range []StatutTitre{TitreAttente, TitreExpire, TitreRenouvele} {
			other := &Titre{Statut: statut, DateExpiration: expiration}
			assert.False(t, other.EstValide(before), "statut %s", statut)
		}
	})
}

func TestRenouvellementEstEnRetard(t *testing.T) {
	prevue := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	r := &RenouvellementHabilitation{Statut: RenouvellementPlanifie, DateRenouvellementPrevue: prevue}
	assert.False(t, r.EstEnRetard(prevue))
	assert.True(t, r.EstEnRetard(prevue.AddDate(0, 0, 1)))

	done := &RenouvellementHabilitation{Statut: RenouvellementFait, DateRenouvellementPrevue: prevue}
	assert.False(t, done.EstEnRetard(prevue.AddDate(0, 1, 0)))
}
