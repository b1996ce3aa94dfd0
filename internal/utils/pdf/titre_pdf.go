// Package pdf renders habilitation certificates.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// TitreDocument carries everything printed on a certificate.
type TitreDocument struct {
	NumeroTitre        string
	StagiaireNom       string
	StagiairePrenom    string
	SpecialisationCode string
	SpecialisationNom  string
	DateDelivrance     time.Time
	DateExpiration     time.Time
	EstValide          bool
}

const dateLayout = "02/01/2006"

// RenderTitre writes the certificate as a one-page PDF.
func RenderTitre(w io.Writer, doc TitreDocument) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Titre d'habilitation "+doc.NumeroTitre, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, tr("Titre d'habilitation"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, tr("N° "+doc.NumeroTitre), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 8, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, tr(value), "", 1, "L", false, 0, "")
	}

	line("Titulaire", doc.StagiairePrenom+" "+doc.StagiaireNom)
	line("Habilitation", doc.SpecialisationCode+" - "+doc.SpecialisationNom)
	line("Délivré le", doc.DateDelivrance.Format(dateLayout))
	line("Expire le", doc.DateExpiration.Format(dateLayout))

	statut := "VALIDE"
	if !doc.EstValide {
		statut = "NON VALIDE"
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 10, tr("Statut: "+statut), "1", 1, "C", false, 0, "")

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

// RenderTitreText writes the same fields as a plain-text fallback.
func RenderTitreText(w io.Writer, doc TitreDocument) error {
	statut := "VALIDE"
	if !doc.EstValide {
		statut = "NON VALIDE"
	}
	_, err := fmt.Fprintf(w,
		"TITRE D'HABILITATION\nNumero: %s\nTitulaire: %s %s\nHabilitation: %s - %s\nDelivre le: %s\nExpire le: %s\nStatut: %s\n",
		doc.NumeroTitre,
		doc.StagiairePrenom, doc.StagiaireNom,
		doc.SpecialisationCode, doc.SpecialisationNom,
		doc.DateDelivrance.Format(dateLayout),
		doc.DateExpiration.Format(dateLayout),
		statut,
	)
	return err
}
