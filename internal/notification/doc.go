// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package notification truncates the user notifications kept in the Dataverse database,
// keeping only the most recent ones of each user.
package notification
