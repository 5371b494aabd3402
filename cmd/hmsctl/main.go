package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"hospital-management-backend/internal/config"
	"hospital-management-backend/internal/database"
	"hospital-management-backend/internal/models"
	"hospital-management-backend/internal/repository"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/logger"
	"hospital-management-backend/pkg/utils"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hmsctl",
		Short: "Operator tooling for the hospital management backend",
	}

	rootCmd.AddCommand(billsCmd())
	rootCmd.AddCommand(toggleBillCmd())
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(createUserCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect opens the configured database the way the server does
func connect() (*gorm.DB, *logger.Logger) {
	db, log, _ := connectWithConfig()
	return db, log
}

func connectWithConfig() (*gorm.DB, *logger.Logger, *config.Config) {
	cfg := config.LoadConfig()
	log := logger.New(cfg.Log.Level)
	cfg.LogWarnings(log.WithComponent("config"))
	return database.Connect(cfg, log), log, cfg
}

func patientService() *service.PatientService {
	db, log := connect()
	patients := repository.NewPatientRepo(db)
	ids := service.NewIdentifierService(repository.NewCounterRepo(db))
	return service.NewPatientService(patients, ids, repository.NewAuditRepo(db), service.DefaultFieldPolicy, log)
}

func billsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bills",
		Short: "Show paid and unpaid bill totals with the most recent patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := patientService().GetBillingSummary(cmd.Context(), service.SystemActor)
			if err != nil {
				return err
			}
			printBillingSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func toggleBillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-bill <patient-id>",
		Short: "Flip a patient's billPaid flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patient, err := patientService().ToggleBillPaid(cmd.Context(), service.SystemActor, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s billPaid=%t billAmount=%.2f\n",
				patient.MRN, patient.Name, patient.BillPaid, patient.BillAmount)
			return nil
		},
	}
}

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "audit <entity> <id>",
		Short:     "List the audit trail of a user, patient, doctor or appointment",
		Args:      cobra.MatchAll(cobra.ExactArgs(2), validEntity),
		ValidArgs: auditEntities,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _ := connect()
			entries, err := repository.NewAuditRepo(db).AuditTrail(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printAuditTrail(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

// createUserCmd provisions accounts with any role, including the first Admin
func createUserCmd() *cobra.Command {
	var input service.RegisterInput
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a staff account with the given role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, log, cfg := connectWithConfig()
			tokens := utils.NewTokenManager(cfg.JWT.AccessSecret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
			auth := service.NewAuthService(repository.NewUserRepo(db), repository.NewAuditRepo(db), tokens,
				utils.PasswordHasher{Cost: utils.DefaultBcryptCost}, log)

			user, err := auth.CreateUser(cmd.Context(), service.SystemActor, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s role=%s\n", user.ID, user.Username, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "login name")
	cmd.Flags().StringVar(&input.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&input.Role, "role", models.RoleAdmin, "one of "+strings.Join(models.Roles, ", "))
	cmd.Flags().StringVar(&input.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&input.Email, "email", "", "contact email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

var auditEntities = []string{models.EntityUser, models.EntityPatient, models.EntityDoctor, models.EntityAppointment}

func validEntity(cmd *cobra.Command, args []string) error {
	if !lo.Contains(auditEntities, args[0]) {
		return fmt.Errorf("unknown entity %q, expected one of %v", args[0], auditEntities)
	}
	return nil
}

func printAuditTrail(out io.Writer, entries []models.AuditLog) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTOR\tACTION\tDETAILS")
	for _, e := range entries {
		actor := lo.FromPtrOr(e.ActorID, "system")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.CreatedAt.Format(time.RFC3339), actor, e.Action, e.Details)
	}
	w.Flush()
}

func printBillingSummary(out io.Writer, summary *models.BillingSummary) {
	fmt.Fprintf(out, "Total: %d  Paid: %d  Unpaid: %d\n\n", summary.Total, summary.Paid, summary.Unpaid)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMRN\tNAME\tAMOUNT\tPAID")
	for _, p := range summary.Recent {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%t\n", p.ID, p.MRN, p.Name, p.BillAmount, p.BillPaid)
	}
	w.Flush()
}
