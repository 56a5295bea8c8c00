/*
 * Copyright 2025 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	logg "log"
	"os"
	"strconv"
	"sync"

	"github.com/comcast/fishypdu/buildinfo"
	"github.com/comcast/fishypdu/common"
	"github.com/comcast/fishypdu/config"
	"github.com/comcast/fishypdu/http/handlers"
	"github.com/comcast/fishypdu/logger"
	"github.com/comcast/fishypdu/middleware/logging"
	pdu_vault "github.com/comcast/fishypdu/vault"
	"go.uber.org/zap"

	"gopkg.in/alecthomas/kingpin.v2"
)

const app = buildinfo.App

var (
	a                  = kingpin.New(app, "ServerTech PRO2 PDU exporter and management API")
	username           = a.Flag("user", "PDU static username").Default("").Envar("PDU_USERNAME").String()
	password           = a.Flag("password", "PDU static password").Default("").Envar("PDU_PASSWORD").String()
	pduTimeout         = a.Flag("timeout", "PDU request timeout").Default("60s").Envar("PDU_TIMEOUT").Duration()
	insecureSkipVerify = a.Flag("insecure-skip-verify", "Skip TLS verification").Default("false").Envar("INSECURE_SKIP_VERIFY").Bool()
	configFile         = a.Flag("config.file", "YAML inventory of PDU targets").Default("").Envar("PDU_CONFIG_FILE").String()
	logLevel           = a.Flag("log.level", "log level verbosity").PlaceHolder("[debug|info|warn|error]").Default("info").Envar("LOG_LEVEL").String()
	logMethod          = a.Flag("log.method", "alternative method for logging in addition to stdout").PlaceHolder("[file|vector]").Default("").Envar("LOG_METHOD").String()
	logFilePath        = a.Flag("log.file-path", "directory path where log files are written if log-method is file").Default("/var/log/fishypdu").Envar("LOG_FILE_PATH").String()
	logFileMaxSize     = a.Flag("log.file-max-size", "max file size in megabytes if log-method is file").Default("256").Envar("LOG_FILE_MAX_SIZE").String()
	logFileMaxBackups  = a.Flag("log.file-max-backups", "max file backups before they are rotated if log-method is file").Default("1").Envar("LOG_FILE_MAX_BACKUPS").String()
	logFileMaxAge      = a.Flag("log.file-max-age", "max file age in days before they are rotated if log-method is file").Default("1").Envar("LOG_FILE_MAX_AGE").String()
	vectorEndpoint     = a.Flag("vector.endpoint", "vector endpoint to send structured json logs to").Default("http://0.0.0.0:4444").Envar("VECTOR_ENDPOINT").String()
	vaultAddr          = a.Flag("vault.addr", "Vault instance address to get PDU credentials from").Default("https://vault.com").Envar("VAULT_ADDRESS").String()
	vaultRoleId        = a.Flag("vault.role-id", "Vault Role ID for AppRole").Default("").Envar("VAULT_ROLE_ID").String()
	vaultSecretId      = a.Flag("vault.secret-id", "Vault Secret ID for AppRole").Default("").Envar("VAULT_SECRET_ID").String()
	output             = a.Flag("output", "output format of the get, outlet and restart commands").Short('o').Default(formatJSON).Enum(formatJSON, formatYAML)
	credProfiles       = common.CredentialProf(a.Flag("credentials.profiles",
		`profile(s) with all necessary parameters to obtain PDU credential from secrets backend, i.e.
  --credentials.profiles="
    profiles:
      - name: profile1
        mountPath: "kv2"
        path: "path/to/secret"
        userField: "user"
        passwordField: "password"
      ...
  "
--credentials.profiles='{"profiles":[{"name":"profile1","mountPath":"kv2","path":"path/to/secret","userField":"user","passwordField":"password"},...]}'`))

	serveCmd     = a.Command("serve", "run the exporter and management API").Default()
	exporterPort = serveCmd.Flag("port", "exporter port").Default("10023").Envar("EXPORTER_PORT").String()

	getCmd       = a.Command("get", "read a getter from a PDU")
	getGetter    = getCmd.Arg("getter", "getter to call").Required().Enum(handlers.Getters...)
	getTarget    = getCmd.Flag("target", "PDU host or inventory name").Required().String()
	getProfile   = getCmd.Flag("credential-profile", "credential profile used for the target").Default("").String()
	getRetrieve  = getCmd.Flag("retrieve", "configuration to retrieve with the config getter").Default("all").Enum("all", "running", "startup", "candidate")
	getSanitized = getCmd.Flag("sanitized", "request a sanitized configuration").Bool()

	outletCmd     = a.Command("outlet", "switch an outlet")
	outletTarget  = outletCmd.Flag("target", "PDU host or inventory name").Required().String()
	outletProfile = outletCmd.Flag("credential-profile", "credential profile used for the target").Default("").String()
	outletID      = outletCmd.Arg("id", "outlet id, i.e. AA1").Required().String()
	outletAction  = outletCmd.Arg("action", "on, off or reboot").Required().String()

	restartCmd     = a.Command("restart", "restart the PDU management controller")
	restartTarget  = restartCmd.Flag("target", "PDU host or inventory name").Required().String()
	restartProfile = restartCmd.Flag("credential-profile", "credential profile used for the target").Default("").String()
	restartAction  = restartCmd.Arg("action", "restart action").Required().String()

	versionCmd  = a.Command("version", "print build information")
	versionJSON = versionCmd.Flag("json", "print build information as JSON").Bool()

	log *zap.Logger

	vault *pdu_vault.Vault
)

var wg = sync.WaitGroup{}

func main() {
	ctx := context.Background()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = ""
	}

	// retryablehttp logs through the standard logger
	logg.SetOutput(io.Discard)

	a.HelpFlag.Short('h')

	cmd, err := a.Parse(os.Args[1:])
	if err != nil {
		panic(fmt.Errorf("error parsing argument flags - %s", err.Error()))
	}

	if cmd == versionCmd.FullCommand() {
		if *versionJSON {
			err = buildinfo.JSON(os.Stdout)
		} else {
			err = buildinfo.Print(os.Stdout)
		}
		if err != nil {
			os.Exit(1)
		}
		return
	}

	// validate logFilePath exists and is a directory
	if *logMethod == "file" {
		fd, err := os.Stat(*logFilePath)
		if os.IsNotExist(err) {
			panic(err)
		}
		if !fd.IsDir() {
			panic(fmt.Errorf("%s is not a directory", *logFilePath))
		}
	}

	logfileMaxSize, err := strconv.Atoi(*logFileMaxSize)
	if err != nil {
		panic(fmt.Errorf("error converting arg --log.file-max-size to int - %s", err.Error()))
	}

	logfileMaxBackups, err := strconv.Atoi(*logFileMaxBackups)
	if err != nil {
		panic(fmt.Errorf("error converting arg --log.file-max-backups to int - %s", err.Error()))
	}

	logfileMaxAge, err := strconv.Atoi(*logFileMaxAge)
	if err != nil {
		panic(fmt.Errorf("error converting arg --log.file-max-age to int - %s", err.Error()))
	}

	c := &config.Config{
		Timeout:            *pduTimeout,
		InsecureSkipVerify: *insecureSkipVerify,
		User:               *username,
		Pass:               *password,
	}

	if *configFile != "" {
		c.Targets, err = config.LoadTargets(*configFile)
		if err != nil {
			panic(fmt.Errorf("error loading --config.file %s - %s", *configFile, err.Error()))
		}
	}

	config.NewConfig(c)

	// init logger config
	logConfig := logger.LoggerConfig{
		LogLevel:  *logLevel,
		LogMethod: *logMethod,
		LogFile: logger.LogFile{
			Path:       *logFilePath,
			MaxSize:    logfileMaxSize,
			MaxBackups: logfileMaxBackups,
			MaxAge:     logfileMaxAge,
		},
		VectorEndpoint: *vectorEndpoint,
	}

	err = logger.Initialize(app, hostname, logConfig)
	if err != nil {
		panic(fmt.Errorf("error initializing logger - log_method=%s vector_endpoint=%s log_file_path=%s log_file_max_size=%d log_file_max_backups=%d log_file_max_age=%d - err=%s",
			*logMethod, *vectorEndpoint, *logFilePath, logfileMaxSize, logfileMaxBackups, logfileMaxAge, err.Error()))
	}

	log = zap.L()
	defer logger.Flush()

	// one shot commands print their result on stdout, keep it readable
	if cmd != serveCmd.FullCommand() && *logLevel != "debug" {
		logger.SetLevel("error")
	}

	if *logMethod == "vector" {
		log.Info("successfully initialized logger", zap.String("log_method", *logMethod),
			zap.String("vector_endpoint", *vectorEndpoint))
	} else if *logMethod == "file" {
		log.Info("successfully initialized logger", zap.String("log_method", *logMethod),
			zap.String("log_file_path", *logFilePath),
			zap.Int("log_file_max_size", logfileMaxSize),
			zap.Int("log_file_max_backups", logfileMaxBackups),
			zap.Int("log_file_max_age", logfileMaxAge))
	}

	common.PDUCreds.SetProfiles(credProfiles.Profiles)

	// configure vault client if vaultRoleId & vaultSecretId are set
	if *vaultRoleId != "" && *vaultSecretId != "" {
		vault, err = pdu_vault.NewVaultAppRoleClient(
			ctx,
			pdu_vault.Parameters{
				Address:         *vaultAddr,
				ApproleRoleID:   *vaultRoleId,
				ApproleSecretID: *vaultSecretId,
			},
		)
		if err != nil {
			log.Error("failed initializing vault client", zap.Error(err),
				zap.String("vault_address", *vaultAddr),
				zap.String("vault_role_id", *vaultRoleId))
		} else {
			// we add this here so we can update credentials once we detect they are rotated
			common.PDUCreds.Vault = vault
		}
	}

	cfg := &handlers.ScrapeConfig{Vault: vault}

	if cmd != serveCmd.FullCommand() {
		ctx = logging.WithTraceID(ctx)
	}

	switch cmd {
	case serveCmd.FullCommand():
		serve(ctx, cfg)
		return
	case getCmd.FullCommand():
		query := map[string][]string{
			"retrieve":  {*getRetrieve},
			"sanitized": {strconv.FormatBool(*getSanitized)},
		}
		err = runGet(ctx, os.Stdout, cfg, *getTarget, *getProfile, *getGetter, query, *output)
	case outletCmd.FullCommand():
		err = runOutlet(ctx, os.Stdout, cfg, *outletTarget, *outletProfile, *outletID, *outletAction, *output)
	case restartCmd.FullCommand():
		err = runRestart(ctx, os.Stdout, cfg, *restartTarget, *restartProfile, *restartAction, *output)
	}

	if err != nil {
		logger.Flush()
		fmt.Fprintf(os.Stderr, "%s: %s\n", app, err.Error())
		os.Exit(1)
	}
}
