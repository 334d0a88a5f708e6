package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	employeeDatamodel "github.com/albaledger/portal/internal/core/datamodel/employee"
	userDatamodel "github.com/albaledger/portal/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with demo accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initGorm(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"notifications", "documents", "employees", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		abc := "ABC Sh.p.k."
		xyz := "XYZ L.L.C."
		users := []userDatamodel.User{
			{Username: "admin", Name: "Kontabilisti Admin", Role: "admin"},
			{Username: "klient1", Name: "Agron Berisha", Role: "client", BusinessName: &abc},
			{Username: "klient2", Name: "Fatmira Krasniqi", Role: "client", BusinessName: &xyz},
			{Username: "employee1", Name: "Besarta Morina", Role: "employee"},
			{Username: "employee2", Name: "Driton Hoxha", Role: "employee"},
		}

		seeded := make(map[string]int64, len(users))
		for i := range users {
			u := users[i]
			u.PasswordHash = string(hash)
			u.IsActive = true

			var existing userDatamodel.User
			err := db.Where("username = ?", u.Username).First(&existing).Error
			if err == nil {
				seeded[u.Username] = existing.ID
				fmt.Printf("user %s already exists\n", u.Username)
				continue
			}
			if err != gorm.ErrRecordNotFound {
				log.Fatalf("failed to look up user %s: %v", u.Username, err)
			}

			if err := db.Create(&u).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Username, err)
			}
			seeded[u.Username] = u.ID
			fmt.Printf("seeded user %s (%s)\n", u.Username, u.Role)
		}

		employees := []struct {
			Username string
			Name     string
			Email    string
			Clients  []int64
		}{
			{"employee1", "Besarta Morina", "besarta@portal.local", []int64{seeded["klient1"]}},
			{"employee2", "Driton Hoxha", "driton@portal.local", []int64{seeded["klient2"]}},
		}

		for _, e := range employees {
			var existing employeeDatamodel.Employee
			err := db.Where("username = ?", e.Username).First(&existing).Error
			if err == nil {
				fmt.Printf("employee %s already exists\n", e.Username)
				continue
			}
			if err != gorm.ErrRecordNotFound {
				log.Fatalf("failed to look up employee %s: %v", e.Username, err)
			}

			assigned, err := json.Marshal(e.Clients)
			if err != nil {
				log.Fatalf("failed to encode assigned clients for %s: %v", e.Username, err)
			}

			emp := employeeDatamodel.Employee{
				Name:            e.Name,
				Username:        e.Username,
				Email:           e.Email,
				AssignedClients: string(assigned),
				IsActive:        true,
			}
			if err := db.Create(&emp).Error; err != nil {
				log.Fatalf("failed to seed employee %s: %v", e.Username, err)
			}
			fmt.Printf("seeded employee %s\n", e.Username)
		}

		fmt.Println("Seeding complete. Demo password for all accounts: password")
	},
}
