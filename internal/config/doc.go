// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the settings file of the CLI: how to reach the Dataverse API and its database.
//
// The file may be YAML (.yml, .yaml) or HCL (.hcl). HCL files can refer to environment variables:
//
//	api {
//	  base_url = "https://demo.dataverse.org"
//	  api_key  = env.DATAVERSE_API_KEY
//	}
//
//	db {
//	  host     = "localhost"
//	  database = "dvndb"
//	  user     = "dvnuser"
//	  password = env.DVN_DB_PASSWORD
//	}
//
// The location is a local path or any go-getter source, see https://github.com/hashicorp/go-getter.
package config
