// Package wizard collects a cluster configuration interactively.
//
// RunWizard asks the question groups with charmbracelet/huh forms and
// returns a WizardResult; BuildConfig turns it into a defaulted
// config.Config and WriteConfig saves that as commented YAML.
package wizard
