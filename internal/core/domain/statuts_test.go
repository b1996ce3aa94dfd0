package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatutSessionTransitions(t *testing.T) {
	assert.True(t, SessionPlanifiee.PeutTransitionner(SessionEnCours))
	assert.True(t, SessionPlanifiee.PeutTransitionner(SessionAnnulee))
	assert.True(t, SessionEnCours.PeutTransitionner(SessionTerminee))
	assert.True(t, SessionEnCours.PeutTransitionner(SessionAnnulee))

	assert.False(t, SessionPlanifiee.PeutTransitionner(SessionTerminee))
	assert.False(t, SessionTerminee.PeutTransitionner(SessionEnCours))
	assert.False(t, SessionAnnulee.PeutTransitionner(SessionPlanifiee))
}

func TestStatutDemandeTransitions(t *testing.T) {
	assert.True(t, DemandeEnAttente.PeutTransitionner(DemandeApprouvee))
	assert.True(t, DemandeEnAttente.PeutTransitionner(DemandeRefusee))
	assert.True(t, DemandeEnAttente.PeutTransitionner(DemandeAnnulee))

	assert.False(t, DemandeRefusee.PeutTransitionner(DemandeApprouvee))
	assert.False(t, DemandeAnnulee.PeutTransitionner(DemandeEnAttente))
	assert.False(t, DemandeApprouvee.PeutTransitionner(DemandeRefusee))
}

func TestStatutDemandeStagiaireTransitions(t *testing.T) {
	assert.True(t, DemandeStagiaireEnAttente.PeutTransitionner(DemandeStagiaireValidee))
	assert.True(t, DemandeStagiaireValidee.PeutTransitionner(DemandeStagiaireIntegree))
	assert.False(t, DemandeStagiaireEnAttente.PeutTransitionner(DemandeStagiaireIntegree))
	assert.False(t, DemandeStagiaireIntegree.PeutTransitionner(DemandeStagiaireRefusee))
}

func TestStatutFormationTransitions(t *testing.T) {
	assert.True(t, FormationEnCours.PeutTransitionner(FormationCompletee))
	assert.True(t, FormationEnCours.PeutTransitionner(FormationAbandonnee))
	assert.False(t, FormationCompletee.PeutTransitionner(FormationEnCours))
}
