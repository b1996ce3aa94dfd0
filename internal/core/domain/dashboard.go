package domain

// PlatformCounters are the platform-wide totals shown to super admins.
type PlatformCounters struct {
	Tenants     int `json:"tenants"`
	Entreprises int `json:"entreprises"`
	Users       int `json:"users"`
	Stagiaires  int `json:"stagiaires"`
	Sessions    int `json:"sessions"`
	Titres      int `json:"titres"`
}

// OrganismeCounters summarize one training organization's activity.
type OrganismeCounters struct {
	Stagiaires          int `json:"stagiaires"`
	StagiairesIndependants int `json:"stagiairesIndependants"`
	EntreprisesClientes int `json:"entreprisesClientes"`
	SessionsEnCours     int `json:"sessionsEnCours"`
	DemandesEnAttente   int `json:"demandesEnAttente"`
	TitresCeMois        int `json:"titresCeMois"`
	TitresExpirant90J   int `json:"titresExpirant90j"`
}

// FormateurCounters summarize a trainer's workload.
type FormateurCounters struct {
	SessionsAssignees   int `json:"sessionsAssignees"`
	SessionsEnCours     int `json:"sessionsEnCours"`
	FormationsAValider  int `json:"formationsAValider"`
}

// EntrepriseCounters summarize a client company's trainees and certificates.
type EntrepriseCounters struct {
	Stagiaires        int `json:"stagiaires"`
	FormationsEnCours int `json:"formationsEnCours"`
	TitresValides     int `json:"titresValides"`
	TitresExpirant90J int `json:"titresExpirant90j"`
	DemandesEnAttente int `json:"demandesEnAttente"`
}

// DossierStagiaire is the self-service view of one trainee's own record.
type DossierStagiaire struct {
	Stagiaire  *Stagiaire  `json:"stagiaire"`
	Formations []Formation `json:"formations"`
	Titres     []Titre     `json:"titres"`
}
