package models

import (
	"log"

	"github.com/codezana/generator-system-api/config"
)

func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&User{},
		&Generator{},
		&ExpenseType{},
		&Ampere{},
		&Expense{},
		&GeneratorExpense{},
		&Debt{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
