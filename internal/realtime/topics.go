package realtime

// Topics name the query results a change invalidates.

func OwnedBoardsTopic(userUUID string) string { return "owned:" + userUUID }

func SharedBoardsTopic(userUUID string) string { return "shared:" + userUUID }

func BoardUsersTopic(boardUUID string) string { return "board-users:" + boardUUID }

func ProblemsTopic(boardUUID string) string { return "problems:" + boardUUID }
