package voice

import (
	"regexp"

	"github.com/mru-labs/merchant-os/internal/domain"
)

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

var copyBundles = map[domain.Locale]domain.VoiceCopySet{
	domain.LocaleEN: {
		PromptTitle:              "Tap & Speak: Sale, Stock, or Balance",
		PromptSubtitle:           "Tap the mic and speak",
		ChipSale:                 "Sale",
		ChipStock:                "Stock",
		ChipBalance:              "Balance",
		Listening:                "Listening...",
		Processing:               "AI is understanding your words...",
		TranscriptionPlaceholder: "Your words will appear here...",
		Actions: map[domain.TransactionAction]domain.ConfirmationCopy{
			domain.ActionSale: {
				Title:     "Sale Logged",
				Template:  "Logged {qty} {item} at {currency} {amount}. Confirm?",
				Badge:     "Sale",
				Success:   "Sale confirmed! Your ledger has been updated. Keep selling!",
				Cancelled: "Sale cancelled. No changes were saved.",
			},
			domain.ActionStock: {
				Title:     "Stock Added",
				Template:  "Added {qty} {item} to your inventory at {currency} {amount}. Confirm?",
				Badge:     "Stock",
				Success:   "Stock added! Your inventory is now up to date.",
				Cancelled: "Stock entry cancelled. Nothing was changed.",
			},
			domain.ActionBalance: {
				Title:     "Balance Checked",
				Template:  "Your current balance is {currency} {amount}.",
				Badge:     "Balance",
				Success:   "Balance check complete. All good!",
				Cancelled: "Balance check dismissed.",
			},
			domain.ActionPayment: {
				Title:     "Payment Started",
				Template:  "Sending {currency} {amount} to {customer} via {method}. Confirm?",
				Badge:     "Payment",
				Success:   "Payment sent! You will get a confirmation on your phone.",
				Cancelled: "Payment cancelled. No money was sent.",
			},
		},
		DialogTitle:       "Are you sure you want to log this transaction?",
		DialogDescription: "Please review the details below before confirming.",
		ConfirmButton:     "Confirm",
		CancelButton:      "Cancel",
		ConfirmingButton:  "Logging...",
		TransactionReady:  "Transaction ready!",
		ParsedLabel:       "Transaction Parsed",
		ItemLabel:         "Item",
		AmountLabel:       "Amount",
		CustomerLabel:     "Customer",
		MethodLabel:       "Method",
		TaxLabel:          "VAT (15%)",
	},
	domain.LocaleFR: {
		PromptTitle:              "Appuyez & Parlez : Vente, Stock ou Solde",
		PromptSubtitle:           "Appuyez sur le micro et parlez",
		ChipSale:                 "Vente",
		ChipStock:                "Stock",
		ChipBalance:              "Solde",
		Listening:                "J'ecoute...",
		Processing:               "L'IA comprend vos mots...",
		TranscriptionPlaceholder: "Vos mots apparaitront ici...",
		Actions: map[domain.TransactionAction]domain.ConfirmationCopy{
			domain.ActionSale: {
				Title:     "Vente Enregistree",
				Template:  "{qty} {item} enregistres a {currency} {amount}. Confirmer ?",
				Badge:     "Vente",
				Success:   "Vente confirmee ! Votre registre est a jour. Bonne continuation !",
				Cancelled: "Vente annulee. Aucune modification n'a ete enregistree.",
			},
			domain.ActionStock: {
				Title:     "Stock Ajoute",
				Template:  "{qty} {item} ajoutes au stock a {currency} {amount}. Confirmer ?",
				Badge:     "Stock",
				Success:   "Stock ajoute ! Votre inventaire est maintenant a jour.",
				Cancelled: "Entree de stock annulee. Rien n'a ete modifie.",
			},
			domain.ActionBalance: {
				Title:     "Solde Verifie",
				Template:  "Votre solde actuel est de {currency} {amount}.",
				Badge:     "Solde",
				Success:   "Verification du solde terminee. Tout va bien !",
				Cancelled: "Verification du solde fermee.",
			},
			domain.ActionPayment: {
				Title:     "Paiement Lance",
				Template:  "Envoi de {currency} {amount} a {customer} via {method}. Confirmer ?",
				Badge:     "Paiement",
				Success:   "Paiement envoye ! Vous recevrez une confirmation sur votre telephone.",
				Cancelled: "Paiement annule. Aucun argent n'a ete envoye.",
			},
		},
		DialogTitle:       "Etes-vous sur de vouloir enregistrer cette transaction ?",
		DialogDescription: "Veuillez verifier les details ci-dessous avant de confirmer.",
		ConfirmButton:     "Confirmer",
		CancelButton:      "Annuler",
		ConfirmingButton:  "Enregistrement...",
		TransactionReady:  "Transaction prete !",
		ParsedLabel:       "Transaction Analysee",
		ItemLabel:         "Article",
		AmountLabel:       "Montant",
		CustomerLabel:     "Client",
		MethodLabel:       "Methode",
		TaxLabel:          "TVA (15%)",
	},
}

// Locales lists the supported copy locales.
func Locales() []domain.Locale {
	return []domain.Locale{domain.LocaleEN, domain.LocaleFR}
}

// ResolveLocale maps any input to a supported locale, defaulting to English.
func ResolveLocale(locale string) domain.Locale {
	if _, ok := copyBundles[domain.Locale(locale)]; ok {
		return domain.Locale(locale)
	}
	return domain.LocaleEN
}

// GetVoiceCopy returns the copy bundle for locale. Unsupported or empty locales get English.
// The returned set owns its Actions map.
func GetVoiceCopy(locale string) domain.VoiceCopySet {
	set := copyBundles[ResolveLocale(locale)]

	actions := make(map[domain.TransactionAction]domain.ConfirmationCopy, len(set.Actions))
	for k, v := range set.Actions {
		actions[k] = v
	}
	set.Actions = actions
	return set
}

// FillTemplate replaces each {name} in template with values[name].
// Unknown names are left as-is, braces included. Substituted text is not rescanned.
func FillTemplate(template string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if v, ok := values[key]; ok {
			return v
		}
		return match
	})
}

// RenderConfirmation fills the confirmation template of action in locale.
func RenderConfirmation(locale string, action domain.TransactionAction, values map[string]string) string {
	c, ok := copyBundles[ResolveLocale(locale)].Actions[action]
	if !ok {
		return ""
	}
	return FillTemplate(c.Template, values)
}
