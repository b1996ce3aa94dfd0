package dto

// ImportRowError describes why one CSV row was skipped.
type ImportRowError struct {
	Ligne  int    `json:"ligne"`
	Erreur string `json:"erreur"`
}

// ImportResult summarizes a trainee CSV import run.
type ImportResult struct {
	DryRun            bool             `json:"dryRun"`
	LignesTraitees    int              `json:"lignesTraitees"`
	EntreprisesCreees int              `json:"entreprisesCreees"`
	StagiairesCrees   int              `json:"stagiairesCrees"`
	DemandesCreees    int              `json:"demandesCreees"`
	Erreurs           []ImportRowError `json:"erreurs"`
}
