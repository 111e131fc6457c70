package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/bestroofingnow/RoofingTrainer/core"
	"github.com/bestroofingnow/RoofingTrainer/storage/database"
	sqlxrepos "github.com/bestroofingnow/RoofingTrainer/storage/database/sqlx"
)

var logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

func main() {
	defer os.Exit(0)

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	sdb := sqlx.NewDb(db, "postgres")

	// start CLI
	cli := commandLine{
		db:           db,
		usrRepo:      sqlxrepos.NewUserRepository(sdb),
		trainingRepo: sqlxrepos.NewTrainingRepository(sdb),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
